package steward

import (
	"os"

	jsoniter "github.com/json-iterator/go"
)

// ConvertJSONFileToConfig opens a file.json and converts to Seasoning.
func ConvertJSONFileToConfig(fileNamePath string) (*Seasoning, error) {

	byteValue, err := os.ReadFile(fileNamePath)
	if err != nil {
		return nil, err
	}

	config := &Seasoning{}
	var json = jsoniter.ConfigFastest
	err = json.Unmarshal(byteValue, config)

	return config, err
}

// ConvertJSONFileToTopologyConfig opens a file.json and converts to TopologyConfig.
func ConvertJSONFileToTopologyConfig(fileNamePath string) (*TopologyConfig, error) {

	byteValue, err := os.ReadFile(fileNamePath)
	if err != nil {
		return nil, err
	}

	config := &TopologyConfig{}
	var json = jsoniter.ConfigFastest
	err = json.Unmarshal(byteValue, config)

	return config, err
}
