package domain

// Book is catalog metadata, read-only to this service. It is only ever
// produced by the catalog client and consumed by order building.
type Book struct {
	Isbn      string  `json:"isbn"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Price     float64 `json:"price"`
	Publisher string  `json:"publisher"`
}
