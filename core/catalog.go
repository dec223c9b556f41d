package core

import (
	"github.com/spf13/viper"
)

type (
	// CatalogCourse is a single entry of the static course catalog.
	CatalogCourse struct {
		Code string `mapstructure:"code" json:"code"`
		Name string `mapstructure:"name" json:"name"`
	}

	CatalogFaculty struct {
		Name    string          `mapstructure:"name" json:"name"`
		Courses []CatalogCourse `mapstructure:"courses" json:"courses"`
	}

	// Catalog is read-only configuration data: nothing in the portal depends
	// on its shape beyond lookup by faculty name and course code.
	Catalog struct {
		Faculties []CatalogFaculty `mapstructure:"faculties" json:"faculties"`

		// DefaultEnrollment lists the course codes every student is shown
		// announcements for until real enrollment data exists.
		DefaultEnrollment []string `mapstructure:"default_enrollment" json:"default_enrollment"`
	}
)

// DefaultCatalog returns the built-in catalog used when no catalog file is configured.
func DefaultCatalog() Catalog {
	return Catalog{
		Faculties: []CatalogFaculty{
			{
				Name: "Information Technology",
				Courses: []CatalogCourse{
					{Code: "PROG1001", Name: "Introduction to Programming"},
					{Code: "ICT2002", Name: "Networks and Communication"},
					{Code: "DBM2023", Name: "Database Management"},
				},
			},
			{
				Name: "Engineering",
				Courses: []CatalogCourse{
					{Code: "OP3011", Name: "Operations Research"},
				},
			},
		},
		DefaultEnrollment: []string{"PROG1001", "ICT2002", "OP3011", "DBM2023"},
	}
}

// LoadCatalog reads a catalog file (yaml/json/toml, by extension). An empty
// path returns the built-in catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Catalog{}, err
	}
	var cat Catalog
	if err := v.Unmarshal(&cat); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

// Faculty looks a faculty up by name.
func (c Catalog) Faculty(name string) (CatalogFaculty, bool) {
	for _, f := range c.Faculties {
		if f.Name == name {
			return f, true
		}
	}
	return CatalogFaculty{}, false
}

// Course looks a course up by code across all faculties.
func (c Catalog) Course(code string) (CatalogCourse, bool) {
	for _, f := range c.Faculties {
		for _, crs := range f.Courses {
			if crs.Code == code {
				return crs, true
			}
		}
	}
	return CatalogCourse{}, false
}
