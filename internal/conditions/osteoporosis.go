package conditions

import "medscreen-gateway/internal/forms"

// categorical builds a string-payload select field from its option labels;
// the model consumes the category strings verbatim.
func categorical(name, label string, values ...string) forms.FieldSchema {
	opts := make([]forms.Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, forms.Option{Label: v, Value: v})
	}
	return forms.FieldSchema{
		Name:     name,
		Label:    label,
		Type:     forms.FieldSelect,
		Required: true,
		Options:  opts,
	}
}

// Osteoporosis returns the osteoporosis screening definition: Age plus 13
// categorical lifestyle and history fields, category values matching the
// training data.
func Osteoporosis() Definition {
	return Definition{
		Slug:        "osteoporosis",
		Title:       "Osteoporosis Risk Assessment",
		Description: "Screens for osteoporosis from demographic, lifestyle and history factors.",
		Method:      MethodJSON,
		Fields: []forms.FieldSchema{
			{
				Name:     "Age",
				Label:    "Age",
				Type:     forms.FieldNumber,
				Required: true,
				Min:      forms.Float(18),
				Max:      forms.Float(100),
				Unit:     "years",
			},
			categorical("Gender", "Gender", "Female", "Male"),
			categorical("Hormonal Changes", "Hormonal Changes", "Normal", "Postmenopausal"),
			categorical("Family History", "Family History of Osteoporosis", "No", "Yes"),
			categorical("Race/Ethnicity", "Race/Ethnicity", "Caucasian", "African American", "Asian"),
			categorical("Body Weight", "Body Weight", "Normal", "Underweight"),
			categorical("Calcium Intake", "Calcium Intake", "Adequate", "Low"),
			categorical("Vitamin D Intake", "Vitamin D Intake", "Sufficient", "Insufficient"),
			categorical("Physical Activity", "Physical Activity", "Active", "Sedentary"),
			categorical("Smoking", "Smoking", "No", "Yes"),
			categorical("Alcohol Consumption", "Alcohol Consumption", "None", "Moderate"),
			categorical("Medical Conditions", "Medical Conditions", "None", "Rheumatoid Arthritis", "Hyperthyroidism"),
			categorical("Medications", "Medications", "None", "Corticosteroids"),
			categorical("Prior Fractures", "Prior Fractures", "No", "Yes"),
		},
	}
}
