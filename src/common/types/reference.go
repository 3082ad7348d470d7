package types

// CorpusReference is the Network Rail CORPUS location reference file.
type CorpusReference struct {
	TiplocData []CorpusEntry `json:"TIPLOCDATA"`
}

type CorpusEntry struct {
	Nlc         string `json:"NLC"`
	Stanox      string `json:"STANOX"`
	Tiploc      string `json:"TIPLOC"`
	ThreeAlpha  string `json:"3ALPHA"`
	Uic         string `json:"UIC"`
	Description string `json:"NLCDESC"`
}
