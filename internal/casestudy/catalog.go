package casestudy

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var contentFS embed.FS

// Content files read by LoadCatalog, in digest order.
const (
	ProjectsFile     = "projects.yaml"
	ExperienceFile   = "experience.yaml"
	CapabilitiesFile = "capabilities.yaml"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ErrInvalidCatalog wraps every content validation failure.
var ErrInvalidCatalog = errors.New("casestudy: invalid catalog")

// Catalog is the validated site content.
type Catalog struct {
	Projects     []Project
	Experience   []Experience
	Capabilities []Capability

	digest string
	index  map[string]int
}

// DefaultCatalog loads the content compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	sub, err := fs.Sub(contentFS, "content")
	if err != nil {
		return nil, err
	}
	return LoadCatalog(sub)
}

// LoadCatalog parses and validates the content files found at the root of fsys.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	hash := sha256.New()
	read := func(name string, dest interface{}) error {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		hash.Write(raw)
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(dest); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
		}
		return nil
	}

	var projects struct {
		Projects []Project `yaml:"projects"`
	}
	var experience struct {
		Experience []Experience `yaml:"experience"`
	}
	var capabilities struct {
		Capabilities []Capability `yaml:"capabilities"`
	}
	if err := read(ProjectsFile, &projects); err != nil {
		return nil, err
	}
	if err := read(ExperienceFile, &experience); err != nil {
		return nil, err
	}
	if err := read(CapabilitiesFile, &capabilities); err != nil {
		return nil, err
	}

	c := &Catalog{
		Projects:     projects.Projects,
		Experience:   experience.Experience,
		Capabilities: capabilities.Capabilities,
		digest:       hex.EncodeToString(hash.Sum(nil))[:12],
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Digest identifies the content revision.
func (c *Catalog) Digest() string {
	return c.digest
}

// Lookup finds a project by slug.
func (c *Catalog) Lookup(slug string) (Project, bool) {
	idx, ok := c.index[slug]
	if !ok {
		return Project{}, false
	}
	return c.Projects[idx], true
}

func (c *Catalog) validate() error {
	validate := newValidator()
	c.index = make(map[string]int, len(c.Projects))
	for i, p := range c.Projects {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("%w: project %d: %v", ErrInvalidCatalog, i, err)
		}
		if p.Media != nil {
			if err := validate.Struct(p.Media); err != nil {
				return fmt.Errorf("%w: project %s media: %v", ErrInvalidCatalog, p.Slug, err)
			}
		}
		if _, dup := c.index[p.Slug]; dup {
			return fmt.Errorf("%w: duplicate slug %q", ErrInvalidCatalog, p.Slug)
		}
		c.index[p.Slug] = i
	}
	for i, e := range c.Experience {
		if err := validate.Struct(e); err != nil {
			return fmt.Errorf("%w: experience %d: %v", ErrInvalidCatalog, i, err)
		}
	}
	for i, capability := range c.Capabilities {
		if err := validate.Struct(capability); err != nil {
			return fmt.Errorf("%w: capability %d: %v", ErrInvalidCatalog, i, err)
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}
