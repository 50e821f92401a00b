// Package dataset loads the canonical inventory list from a local file or a
// remote URL.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/roomstock/inventory/internal/transport"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/logging"
)

// Hint is shown when the dataset cannot be loaded.
const Hint = "check that --data names a readable file or a reachable http(s) URL, then retry"

// Loader reads the canonical dataset.
type Loader struct {
	client *transport.Client
}

// NewLoader returns a loader that uses client for remote locations.
// A nil client gets a default one.
func NewLoader(client *transport.Client) *Loader {
	if client == nil {
		client = transport.New()
	}
	return &Loader{client: client}
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Load reads and decodes the dataset at location. Every failure past the
// configuration check matches errors.ErrSourceUnavailable.
func (l *Loader) Load(ctx context.Context, location string) ([]inventory.Record, error) {
	ctx = logging.WithSource(ctx, location)
	if strings.TrimSpace(location) == "" {
		return nil, errors.NewConfigError("data", "no dataset location configured", nil)
	}

	var (
		data []byte
		err  error
	)
	if IsRemote(location) {
		data, err = l.client.Get(ctx, location)
	} else {
		data, err = os.ReadFile(location)
		if err != nil {
			err = errors.WrapIO("read", location, err)
		}
	}
	if err != nil {
		return nil, errors.WrapSource(location, errors.WrapResource("fetch", "dataset", location, err))
	}

	records, err := Decode(data, location)
	if err != nil {
		return nil, errors.WrapSource(location, err)
	}
	logging.Ctx(ctx).Debug().Int("records", len(records)).Msg("Loaded dataset")
	return records, nil
}

// Decode parses a dataset document: a JSON array of record objects.
func Decode(data []byte, name string) ([]inventory.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, errors.NewParseError("json", name, "dataset must be a JSON array of records", nil)
	}
	var records []inventory.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapParse("json", name, err)
	}
	for i := range records {
		if records[i].ItemID == "" {
			return nil, errors.NewParseError("json", name, "record without item_id", nil)
		}
		if records[i].ImageURLs == nil {
			records[i].ImageURLs = inventory.List{}
		}
		if records[i].Tags == nil {
			records[i].Tags = inventory.List{}
		}
	}
	return records, nil
}
