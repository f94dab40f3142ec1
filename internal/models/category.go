package models

// Category groups notes. Name and Color are sealed at rest.
type Category struct {
	ID    string
	Name  string
	Color string
}

// CategoryPayload is the JSON document sealed into a category row.
type CategoryPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryRecord is a category row as persisted.
type CategoryRecord struct {
	ID            string
	EncryptedData string
}
