package tui

// Category is one section of the configuration menu
type Category struct {
	ID          string
	Name        string
	Description string
}

// Categories lists the menu sections in display order
var Categories = []Category{
	{ID: "github", Name: "GitHub", Description: "API endpoint, token and retries"},
	{ID: "wiki", Name: "Wiki", Description: "Wiki service URL and mirror directory"},
	{ID: "server", Name: "Server", Description: "Port and allowed frontend origin of `repotxt serve`"},
	{ID: "concurrency", Name: "Concurrency", Description: "Parallel downloads and request timeout"},
	{ID: "output", Name: "Output", Description: "Artifact directory and file names"},
	{ID: "logging", Name: "Logging", Description: "Log level and format"},
}

// GetCategoryByID returns the category with the given id, or nil
func GetCategoryByID(id string) *Category {
	for i := range Categories {
		if Categories[i].ID == id {
			return &Categories[i]
		}
	}
	return nil
}
