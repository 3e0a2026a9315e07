package finch

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	finchConfigDirName = ".finch"
	finchYAMLName      = "finch.yaml"
	configJSONName     = "config.json"
	ecrCredHelper      = "ecr-login"
	credsHelpersKey    = "creds_helpers"
)

// userHomeDir is a test seam for home directory resolution.
var userHomeDir = os.UserHomeDir

// LoginConfigurator manages the credential helper entry in the Finch
// configuration file so that pushes to ECR authenticate transparently.
type LoginConfigurator struct {
	logger *zap.Logger
}

// NewLoginConfigurator creates a login configurator.
func NewLoginConfigurator(logger *zap.Logger) *LoginConfigurator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginConfigurator{logger: logger}
}

func finchYAMLPath() (string, error) {
	home, err := userHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, finchConfigDirName, finchYAMLName), nil
}

// Configure ensures the ECR credential helper is listed in finch.yaml.
// Every other key in the file is preserved byte-for-byte in meaning; only
// the creds_helpers entry is touched, and only when the helper is missing.
// The result carries changed=true when the file was rewritten.
func (c *LoginConfigurator) Configure() *Result {
	path, err := finchYAMLPath()
	if err != nil {
		return Errorf("Failed to locate home directory: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Errorf("Finch configuration file not found at %s. Run finch vm init first.", path)
		}
		return Errorf("Failed to read Finch configuration: %v", err)
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Errorf("Failed to parse Finch configuration: %v", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	helpers, changed := ensureHelperListed(doc[credsHelpersKey])
	if !changed {
		return Success("ECR credential helper already configured.").
			With(ExtraChanged, false)
	}
	doc[credsHelpersKey] = helpers

	out, err := yaml.Marshal(doc)
	if err != nil {
		return Errorf("Failed to encode Finch configuration: %v", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return Errorf("Failed to write Finch configuration: %v", err)
	}

	c.logger.Info("added ecr credential helper", zap.String("path", path))
	return Success("ECR credential helper configured. The Finch VM must be restarted for the change to take effect.").
		With(ExtraChanged, true)
}

// ensureHelperListed normalizes the creds_helpers value to a list containing
// the ECR helper. A scalar value is promoted to a single-element list before
// the helper is appended.
func ensureHelperListed(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return []any{ecrCredHelper}, true
	case string:
		if v == ecrCredHelper {
			return []any{v}, false
		}
		return []any{v, ecrCredHelper}, true
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == ecrCredHelper {
				return v, false
			}
		}
		return append(v, ecrCredHelper), true
	default:
		return []any{value, ecrCredHelper}, true
	}
}

// HelperStatus describes where the ECR credential helper is configured.
type HelperStatus struct {
	FinchYAML  bool
	ConfigJSON bool
}

// Configured reports whether either source names the helper.
func (s HelperStatus) Configured() bool { return s.FinchYAML || s.ConfigJSON }

// Inspect reports whether the ECR credential helper is configured, checking
// both ~/.finch/finch.yaml creds_helpers and the credsStore in
// ~/.finch/config.json. Missing files are treated as not configured, not as
// errors.
func (c *LoginConfigurator) Inspect() (HelperStatus, error) {
	home, err := userHomeDir()
	if err != nil {
		return HelperStatus{}, err
	}

	status := HelperStatus{}

	if data, err := os.ReadFile(filepath.Join(home, finchConfigDirName, finchYAMLName)); err == nil {
		doc := map[string]any{}
		if yaml.Unmarshal(data, &doc) == nil {
			if _, changed := ensureHelperListed(doc[credsHelpersKey]); !changed {
				status.FinchYAML = true
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join(home, finchConfigDirName, configJSONName)); err == nil {
		var cfg struct {
			CredsStore  string            `json:"credsStore"`
			CredHelpers map[string]string `json:"credHelpers"`
		}
		if json.Unmarshal(data, &cfg) == nil {
			if cfg.CredsStore == ecrCredHelper {
				status.ConfigJSON = true
			}
			for _, helper := range cfg.CredHelpers {
				if helper == ecrCredHelper {
					status.ConfigJSON = true
				}
			}
		}
	}

	return status, nil
}
