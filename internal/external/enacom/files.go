package enacom

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Files reads previously downloaded exports from Dir. File names are the
// base names of the portal resources.
type Files struct {
	Dir string
}

// FetchDataset parses the three exports
func (f Files) FetchDataset(_ context.Context) (contracts.Dataset, error) {
	var ds contracts.Dataset

	data, err := f.read(PathInternetPenetration)
	if err != nil {
		return ds, err
	}
	if ds.Internet, err = ParseInternetPenetration(data); err != nil {
		return ds, fmt.Errorf("%s: %w", filepath.Base(PathInternetPenetration), err)
	}

	if data, err = f.read(PathConnectivityMap); err != nil {
		return ds, err
	}
	if ds.Localities, err = ParseConnectivityMap(data); err != nil {
		return ds, fmt.Errorf("%s: %w", filepath.Base(PathConnectivityMap), err)
	}

	if data, err = f.read(PathMobileAccesses); err != nil {
		return ds, err
	}
	if ds.Mobile, err = ParseMobileAccesses(data); err != nil {
		return ds, fmt.Errorf("%s: %w", filepath.Base(PathMobileAccesses), err)
	}

	return ds, nil
}

func (f Files) read(resource string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, filepath.Base(resource)))
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return data, nil
}
