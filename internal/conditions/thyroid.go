package conditions

import "medscreen-gateway/internal/forms"

// thyroidHistoryFlags are the 14 binary medical-history features the
// thyroid model was trained on. Keys keep the dataset's spacing; the
// service reindexes missing columns to 0, so the flags are optional and an
// unanswered flag means "no".
var thyroidHistoryFlags = []struct {
	name  string
	label string
}{
	{"on thyroxine", "On Thyroxine"},
	{"query on thyroxine", "Possibly On Thyroxine"},
	{"on antithyroid medication", "On Antithyroid Medication"},
	{"sick", "Currently Sick"},
	{"pregnant", "Pregnant"},
	{"thyroid surgery", "Prior Thyroid Surgery"},
	{"I131 treatment", "Prior I131 Treatment"},
	{"query hypothyroid", "Suspected Hypothyroid"},
	{"query hyperthyroid", "Suspected Hyperthyroid"},
	{"lithium", "On Lithium"},
	{"goitre", "Goitre"},
	{"tumor", "Tumor"},
	{"hypopituitary", "Hypopituitary"},
	{"psych", "Psychiatric Condition"},
}

// Thyroid returns the thyroid disorder screening definition.
func Thyroid() Definition {
	fields := []forms.FieldSchema{
		{
			Name:     "age",
			Label:    "Age",
			Type:     forms.FieldNumber,
			Required: true,
			Min:      forms.Float(1),
			Max:      forms.Float(110),
			Unit:     "years",
		},
		{
			Name:     "sex",
			Label:    "Sex",
			Type:     forms.FieldSelect,
			Required: true,
			Options: []forms.Option{
				{Label: "Female", Value: "0"},
				{Label: "Male", Value: "1"},
			},
			Payload: forms.PayloadNumber,
		},
		{
			Name:     "TSH",
			Label:    "TSH",
			Type:     forms.FieldNumber,
			Required: true,
			Min:      forms.Float(0),
			Max:      forms.Float(100),
			Unit:     "mIU/L",
		},
		{
			Name:     "TT4",
			Label:    "Total T4",
			Type:     forms.FieldNumber,
			Required: true,
			Min:      forms.Float(2),
			Max:      forms.Float(430),
			Unit:     "nmol/L",
		},
		{
			Name:     "T4U",
			Label:    "T4 Uptake",
			Type:     forms.FieldNumber,
			Required: true,
			Min:      forms.Float(0),
			Max:      forms.Float(3),
		},
		{
			Name:     "FTI",
			Label:    "Free Thyroxine Index",
			Type:     forms.FieldNumber,
			Required: true,
			Min:      forms.Float(0),
			Max:      forms.Float(400),
		},
	}

	for _, flag := range thyroidHistoryFlags {
		fields = append(fields, forms.FieldSchema{
			Name:    flag.name,
			Label:   flag.label,
			Type:    forms.FieldSelect,
			Options: yesNo(),
			Payload: forms.PayloadNumber,
		})
	}

	return Definition{
		Slug:        "thyroid",
		Title:       "Thyroid Disorder Assessment",
		Description: "Screens for thyroid disorders from hormone panels and medical history.",
		Method:      MethodJSON,
		Fields:      fields,
	}
}
