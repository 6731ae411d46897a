package catalogdata

import (
	"encoding/json"
	"os"

	"github.com/evgensan-b/weblarek/pkg/domain/model"
)

type productsJSON struct {
	Total int             `json:"total"`
	Items []model.Product `json:"items"`
}

// LoadProducts reads the bundled fallback catalog. The file uses the same
// {total, items} shape as the remote API response.
func LoadProducts(filePath string) ([]model.Product, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var data productsJSON
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, err
	}

	if data.Items == nil {
		return []model.Product{}, nil
	}

	return data.Items, nil
}
