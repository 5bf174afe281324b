package imagetype

// Format describes one accepted image format
type Format struct {
	MIME        string   `yaml:"-" json:"mime"`
	DisplayName string   `yaml:"display_name" json:"display_name"`
	Extensions  []string `yaml:"extensions" json:"extensions"`
}

// registryFile is the layout of config/types.yaml
type registryFile struct {
	Types map[string]Format `yaml:"types"`
}
