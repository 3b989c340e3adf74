package conditions

import "medscreen-gateway/internal/forms"

// PCOS returns the polycystic ovary syndrome screening definition. Field
// names and typical ranges follow the inference service contract.
func PCOS() Definition {
	return Definition{
		Slug:        "pcos",
		Title:       "PCOS Risk Assessment",
		Description: "Screens for polycystic ovary syndrome from hormonal and ultrasound markers.",
		Method:      MethodJSON,
		Fields: []forms.FieldSchema{
			{
				Name:     "age",
				Label:    "Age",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(10),
				Max:      forms.Float(60),
				Unit:     "years",
			},
			{
				Name:     "bmi",
				Label:    "BMI",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(10),
				Max:      forms.Float(60),
				Unit:     "kg/m²",
			},
			{
				Name:     "menstrual_irregularity",
				Label:    "Menstrual Irregularity",
				Type:     forms.FieldSelect,
				Required: true,
				Options:  yesNo(),
				Payload:  forms.PayloadNumber,
			},
			{
				Name:     "testosterone_level",
				Label:    "Testosterone Level",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(0),
				Max:      forms.Float(200),
				Unit:     "ng/dL",
			},
			{
				Name:     "antral_follicle_count",
				Label:    "Antral Follicle Count",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(0),
				Max:      forms.Float(50),
			},
		},
	}
}
