package models

// Company holds the subject data returned by the ARES business registry for
// an IČO lookup, used to prefill the registration form.
type Company struct {
	ICO     string `json:"ico"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
