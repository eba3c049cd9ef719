package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/sakani/internal/models"
)

// ReadDataset reads an exported dataset from path.
func ReadDataset(path string) (*models.Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return models.NewDataset(), nil
	}

	dataset := models.NewDataset()
	if err := json.Unmarshal(data, dataset); err != nil {
		return nil, err
	}
	return dataset, nil
}

// ReadDatasetAllowMissing treats a missing file as an empty history.
func ReadDatasetAllowMissing(path string) (*models.Dataset, error) {
	dataset, err := ReadDataset(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewDataset(), nil
		}
		return nil, err
	}
	return dataset, nil
}

// WriteDataset writes a dataset as pretty JSON.
func WriteDataset(path string, dataset *models.Dataset) error {
	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
