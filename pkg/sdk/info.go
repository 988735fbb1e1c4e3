package sdk

// APIVersion is the contract generation implemented by this package. Hosts
// refuse plugins whose manifest declares a different major version.
const APIVersion = "1.x"

// PluginInfo is the static identity a plugin reports to the host.
type PluginInfo struct {
	ID          string `json:"id" yaml:"id" validate:"required,plugin_id"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Version     string `json:"version" yaml:"version" validate:"required,semver"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate ensures the identifier is lower-kebab, the name is set and the
// version is semantic.
func (i PluginInfo) Validate() error {
	return ConvertValidationError(validatorInstance().Struct(i))
}
