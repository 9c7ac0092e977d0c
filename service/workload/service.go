package workload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/cpusched/model"
	"gopkg.in/yaml.v3"
)

// Format selects an encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf infers the encoding from a location extension, defaulting to YAML
func FormatOf(URL string) Format {
	if strings.EqualFold(path.Ext(url.Path(URL)), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Service loads workloads relative to a base URL
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// URL resolves a location against the base URL, adding .yaml when no
// extension is given.
func (s *Service) URL(location string) string {
	if path.Ext(url.Path(location)) == "" {
		location += ".yaml"
	}
	if s.baseURL != "" && url.IsRelative(location) {
		return url.Join(s.baseURL, location)
	}
	return location
}

// Unmarshal downloads location and decodes it into target
func (s *Service) Unmarshal(ctx context.Context, location string, target interface{}) error {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", URL, err)
	}
	if err = Decode(data, FormatOf(URL), target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", URL, err)
	}
	return nil
}

// Load reads and validates a workload. A missing name defaults to the file name.
func (s *Service) Load(ctx context.Context, location string) (*model.Workload, error) {
	ret := &model.Workload{}
	if err := s.Unmarshal(ctx, location, ret); err != nil {
		return nil, err
	}
	if ret.Name == "" {
		base := path.Base(url.Path(s.URL(location)))
		ret.Name = strings.TrimSuffix(base, path.Ext(base))
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Upload encodes value by the location extension and writes it
func (s *Service) Upload(ctx context.Context, location string, value interface{}) error {
	URL := location
	if s.baseURL != "" && url.IsRelative(location) {
		URL = url.Join(s.baseURL, location)
	}
	data, err := Encode(value, FormatOf(URL))
	if err != nil {
		return err
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data), s.options...); err != nil {
		return fmt.Errorf("failed to upload %s: %w", URL, err)
	}
	return nil
}

// Save writes a workload
func (s *Service) Save(ctx context.Context, location string, workload *model.Workload) error {
	if err := workload.Validate(); err != nil {
		return err
	}
	return s.Upload(ctx, location, workload)
}

// Decode unmarshals data in format into target
func Decode(data []byte, format Format, target interface{}) error {
	if format == FormatJSON {
		return json.Unmarshal(data, target)
	}
	return yaml.Unmarshal(data, target)
}

// Encode marshals value in format
func Encode(value interface{}, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(value, "", "  ")
	}
	buffer := &bytes.Buffer{}
	encoder := yaml.NewEncoder(buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// New creates a service; options are passed to every afs call (for example
// an *embed.FS for embed:// locations).
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
