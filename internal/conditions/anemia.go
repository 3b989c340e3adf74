package conditions

import "medscreen-gateway/internal/forms"

// Anemia returns the anemia screening definition. The service expects the
// five CBC features with capitalized keys and gender encoded 0=female,
// 1=male.
func Anemia() Definition {
	return Definition{
		Slug:        "anemia",
		Title:       "Anemia Risk Assessment",
		Description: "Screens for anemia from complete blood count values.",
		Method:      MethodJSON,
		Fields: []forms.FieldSchema{
			{
				Name:     "Gender",
				Label:    "Gender",
				Type:     forms.FieldSelect,
				Required: true,
				Options: []forms.Option{
					{Label: "Female", Value: "0"},
					{Label: "Male", Value: "1"},
				},
				Payload: forms.PayloadNumber,
			},
			{
				Name:     "Hemoglobin",
				Label:    "Hemoglobin",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(3),
				Max:      forms.Float(20),
				Unit:     "g/dL",
			},
			{
				Name:     "MCH",
				Label:    "Mean Corpuscular Hemoglobin",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(10),
				Max:      forms.Float(50),
				Unit:     "pg",
			},
			{
				Name:     "MCHC",
				Label:    "Mean Corpuscular Hemoglobin Concentration",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(20),
				Max:      forms.Float(45),
				Unit:     "g/dL",
			},
			{
				Name:     "MCV",
				Label:    "Mean Corpuscular Volume",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(50),
				Max:      forms.Float(130),
				Unit:     "fL",
			},
		},
	}
}
