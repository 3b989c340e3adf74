package conditions

// BreastCancer returns the image-based breast cancer screening definition.
// It has no form fields; submissions are a single ultrasound image sent as
// multipart form data.
func BreastCancer() Definition {
	return Definition{
		Slug:        "breast-cancer",
		Title:       "Breast Cancer Image Analysis",
		Description: "Classifies breast ultrasound images as normal, benign or malignant.",
		Method:      MethodMultipart,
	}
}

// Defaults returns every built-in condition definition.
func Defaults() []Definition {
	return []Definition{
		PCOS(),
		Anemia(),
		Thyroid(),
		Osteoporosis(),
		BreastCancer(),
	}
}
