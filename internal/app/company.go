package app

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/wildfireconsulting/quantix/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CompanyConfig is the per-installation profile captured by first-run setup.
// It lives next to the data files so backups carry it.
type CompanyConfig struct {
	CompanyName string `json:"company_name"`
	LicenseKey  string `json:"license_key"`
}

// LoadCompanyConfig reads the profile; a missing file means setup has not
// run yet and returns (nil, nil).
func LoadCompanyConfig(path string) (*CompanyConfig, error) {
	if !common.FileExists(path) {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read company config")
	}
	var cc CompanyConfig
	if err := json.Unmarshal(data, &cc); err != nil {
		return nil, errors.Wrap(err, "parse company config")
	}
	return &cc, nil
}

func SaveCompanyConfig(path string, cc *CompanyConfig) error {
	data, err := json.MarshalIndent(cc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode company config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write company config")
	}
	return nil
}
