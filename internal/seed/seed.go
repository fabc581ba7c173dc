// Package seed builds the initial durable record from a YAML catalog.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

// File is the on-disk layout of a seed catalog.
type File struct {
	Admins []Admin `yaml:"admins"`
	Items  []Item  `yaml:"items"`
}

// Admin is a pre-provisioned administrator account.
type Admin struct {
	Username    string `yaml:"username"`
	Credential  string `yaml:"credential"`
	DisplayName string `yaml:"display_name"`
}

// Item is a catalog entry. Price is kept as text so it parses exactly.
type Item struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Desc  string `yaml:"desc"`
	Stock int    `yaml:"stock"`
	Price string `yaml:"price"`
}

// Default returns the built-in catalog.
func Default() (*model.State, error) {
	return Parse(defaultSeed)
}

// Load reads a seed file from path, or the built-in catalog when path is empty.
func Load(path string) (*model.State, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a seed document.
func Parse(data []byte) (*model.State, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	state := &model.State{}
	seen := make(map[string]bool)
	for i, it := range f.Items {
		if it.ID == "" || it.Name == "" {
			return nil, fmt.Errorf("seed item %d: id and name are required", i)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("seed item %s: duplicate id", it.ID)
		}
		seen[it.ID] = true
		if it.Stock < 0 {
			return nil, fmt.Errorf("seed item %s: negative stock", it.ID)
		}
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("seed item %s: price: %w", it.ID, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("seed item %s: negative price", it.ID)
		}
		state.Items = append(state.Items, model.Item{
			ID:    it.ID,
			Name:  it.Name,
			Desc:  it.Desc,
			Stock: it.Stock,
			Price: price,
		})
	}

	for _, a := range f.Admins {
		if a.Username == "" || a.Credential == "" {
			return nil, fmt.Errorf("seed admin: username and credential are required")
		}
		if state.FindUser(a.Username) >= 0 {
			return nil, fmt.Errorf("seed admin %s: duplicate username", a.Username)
		}
		cred := a.Credential
		state.Users = append(state.Users, model.Account{
			Username:    a.Username,
			Credential:  &cred,
			DisplayName: a.DisplayName,
			IsAdmin:     true,
		})
	}

	state.Normalize()
	return state, nil
}
