package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	mstats "github.com/montanaflynn/stats"

	"statkit/internal/errors"
)

// Dataset is a named numeric sample
type Dataset struct {
	ID     uuid.UUID
	Name   string
	Values []float64
}

// Summary holds the descriptive statistics shown for a dataset
type Summary struct {
	Name   string  `json:"name" yaml:"name"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"` // sample SD, 0 for a single value
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// Store keeps datasets in memory, in insertion order. It is not safe for
// concurrent use.
type Store struct {
	byName map[string]*Dataset
	order  []string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{byName: make(map[string]*Dataset)}
}

// Add stores a copy of values under name. It returns false when the name
// is blank or taken, or when values is empty or non-finite.
func (s *Store) Add(name string, values []float64) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(values) == 0 {
		return false
	}
	if _, exists := s.byName[name]; exists {
		return false
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	s.byName[name] = &Dataset{
		ID:     uuid.New(),
		Name:   name,
		Values: append([]float64(nil), values...),
	}
	s.order = append(s.order, name)
	return true
}

// AddText parses comma-separated text and stores it under name
func (s *Store) AddText(name, text string) error {
	values, err := ParseCommaSeparated(text)
	if err != nil {
		return errors.Wrapf(err, "dataset %q", name)
	}
	if strings.TrimSpace(name) == "" {
		return errors.InvalidInput("dataset name must not be empty")
	}
	if !s.Add(name, values) {
		return errors.AlreadyExists(fmt.Sprintf("dataset %q", strings.TrimSpace(name)))
	}
	return nil
}

// Get returns a copy of the values stored under name
func (s *Store) Get(name string) ([]float64, bool) {
	ds, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), ds.Values...), true
}

// Dataset returns the stored record, including its ID
func (s *Store) Dataset(name string) (Dataset, bool) {
	ds, ok := s.byName[name]
	if !ok {
		return Dataset{}, false
	}
	out := *ds
	out.Values = append([]float64(nil), ds.Values...)
	return out, true
}

// List returns dataset names in insertion order
func (s *Store) List() []string {
	return append([]string(nil), s.order...)
}

// Len is the number of stored datasets
func (s *Store) Len() int {
	return len(s.order)
}

// Remove deletes a dataset; false when it does not exist
func (s *Store) Remove(name string) bool {
	if _, ok := s.byName[name]; !ok {
		return false
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Summary describes the dataset stored under name
func (s *Store) Summary(name string) (Summary, error) {
	ds, ok := s.byName[name]
	if !ok {
		return Summary{}, errors.NotFound(fmt.Sprintf("dataset %q", name))
	}
	return Describe(name, ds.Values)
}

// Describe computes a Summary for any non-empty sample
func Describe(name string, values []float64) (Summary, error) {
	data := mstats.Float64Data(values)
	if data.Len() == 0 {
		return Summary{}, errors.InvalidInput(fmt.Sprintf("dataset %q is empty", name))
	}

	sum := Summary{Name: name, Count: data.Len()}
	var err error
	if sum.Mean, err = data.Mean(); err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	if sum.Median, err = data.Median(); err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}
	if sum.Min, err = data.Min(); err != nil {
		return Summary{}, errors.Wrap(err, "min")
	}
	if sum.Max, err = data.Max(); err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}
	if data.Len() > 1 {
		if sum.StdDev, err = data.StandardDeviationSample(); err != nil {
			return Summary{}, errors.Wrap(err, "standard deviation")
		}
	}
	return sum, nil
}
