package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/user/vida-loka-geracoes/internal/types"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

// CatalogFile is the file name the loader looks for in its data directory.
const CatalogFile = "catalog.yaml"

// Focus is a yearly routine the player can commit to
type Focus struct {
	ID          string             `yaml:"id" json:"id"`
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description"`
	StatChanges map[string]float64 `yaml:"stat_changes" json:"stat_changes"`
}

// BackgroundProfile is the starting package for a family background
type BackgroundProfile struct {
	Wealth      int64              `yaml:"wealth"`
	Investments int64              `yaml:"investments"`
	StatChanges map[string]float64 `yaml:"stat_changes"`
	Assets      []string           `yaml:"assets"`
}

// FounderPool lists the appearance options rolled when a lineage is founded
type FounderPool struct {
	HairColors []string `yaml:"hair_colors"`
	EyeColors  []string `yaml:"eye_colors"`
	SkinTones  []string `yaml:"skin_tones"`
	Builds     []string `yaml:"builds"`
}

// Catalog is the static content the engine draws from
type Catalog struct {
	Focuses     []Focus                                      `yaml:"focuses"`
	Backgrounds map[types.FamilyBackground]BackgroundProfile `yaml:"backgrounds"`
	Challenges  []ChallengeDefinition                        `yaml:"challenges"`
	Shop        []ShopItem                                   `yaml:"shop"`
	Titles      []TitleDefinition                            `yaml:"titles"`
	Names       map[string][]string                          `yaml:"names"`
	LastNames   []string                                     `yaml:"last_names"`
	Locations   []string                                     `yaml:"locations"`
	Crests      []string                                     `yaml:"crests"`
	Founder     FounderPool                                  `yaml:"founder"`
}

// Focus looks up a focus by id
func (c *Catalog) Focus(id string) (Focus, bool) {
	for _, f := range c.Focuses {
		if f.ID == id {
			return f, true
		}
	}
	return Focus{}, false
}

// ShopItem looks up a shop item by id
func (c *Catalog) ShopItem(id string) (ShopItem, bool) {
	for _, item := range c.Shop {
		if item.ID == id {
			return item, true
		}
	}
	return ShopItem{}, false
}

// Validate checks ids are unique and shop schedules are sane.
func (c *Catalog) Validate() error {
	if len(c.Focuses) == 0 {
		return errors.New("catalog has no focuses")
	}
	seen := map[string]bool{}
	for _, f := range c.Focuses {
		if f.ID == "" || seen["focus:"+f.ID] {
			return fmt.Errorf("invalid or duplicate focus id %q", f.ID)
		}
		seen["focus:"+f.ID] = true
	}
	for _, item := range c.Shop {
		if err := item.Validate(); err != nil {
			return err
		}
		if seen["shop:"+item.ID] {
			return fmt.Errorf("duplicate shop item id %q", item.ID)
		}
		seen["shop:"+item.ID] = true
	}
	for _, ch := range c.Challenges {
		if ch.ID == "" || seen["challenge:"+ch.ID] {
			return fmt.Errorf("invalid or duplicate challenge id %q", ch.ID)
		}
		seen["challenge:"+ch.ID] = true
	}
	return nil
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &catalog, nil
}

// DefaultCatalog returns the catalog embedded in the binary
func DefaultCatalog() *Catalog {
	catalog, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return catalog
}

// DataLoader handles loading game content from disk
type DataLoader struct {
	dataDir string
}

// NewDataLoader creates a new data loader. An empty dataDir always yields
// the embedded catalog.
func NewDataLoader(dataDir string) *DataLoader {
	return &DataLoader{
		dataDir: dataDir,
	}
}

// LoadCatalog reads catalog.yaml from the data directory, falling back to
// the embedded catalog when the file does not exist.
func (dl *DataLoader) LoadCatalog() (*Catalog, error) {
	if dl.dataDir == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(filepath.Join(dl.dataDir, CatalogFile))
	if errors.Is(err, os.ErrNotExist) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}
