package seedfile

// CategoryEntry represents a single category in the seed YAML.
type CategoryEntry struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
	Icon        string `yaml:"icon"`
}

// Config is the root structure for categories.yaml.
type Config struct {
	Categories []CategoryEntry `yaml:"categories"`
}
