package apiclient

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Routes maps operations to backend paths. {id} is replaced by the resource id.
type Routes struct {
	Login              string `yaml:"login"`
	Refresh            string `yaml:"refresh"`
	Users              string `yaml:"users"`
	User               string `yaml:"user"`
	Incidents          string `yaml:"incidents"`
	IncidentList       string `yaml:"incident_list"`
	Incident           string `yaml:"incident"`
	PublicRegistration *bool  `yaml:"public_registration"`
}

const (
	PresetGateway = "gateway"
	PresetLegacy  = "legacy"
)

// Preset returns one of the known backend layouts.
func Preset(name string) (Routes, error) {
	r := Routes{
		Login:        "/auth/login",
		Refresh:      "/auth/refresh",
		Users:        "/users/",
		User:         "/users/{id}",
		Incidents:    "/incidents/",
		IncidentList: "/incident-details/",
		Incident:     "/incidents/{id}",
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetGateway:
	case PresetLegacy:
		r.Users = "/users/usuarios"
		r.User = "/users/usuarios/{id}"
		r.Incidents = "/incidents/incidencias"
		r.IncidentList = "/incidents/incidencias"
		r.Incident = "/incidents/incidencias/{id}"
	default:
		return Routes{}, fmt.Errorf("unknown routes preset %q", name)
	}
	return r, nil
}

// LoadRoutes starts from a preset and overlays the non-empty fields of a YAML file.
func LoadRoutes(preset, path string) (Routes, error) {
	base, err := Preset(preset)
	if err != nil {
		return Routes{}, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return base, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Routes{}, fmt.Errorf("read routes file: %w", err)
	}
	var file Routes
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Routes{}, fmt.Errorf("decode routes file: %w", err)
	}
	return base.merge(file), nil
}

func (r Routes) merge(o Routes) Routes {
	pick := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	pick(&r.Login, o.Login)
	pick(&r.Refresh, o.Refresh)
	pick(&r.Users, o.Users)
	pick(&r.User, o.User)
	pick(&r.Incidents, o.Incidents)
	pick(&r.IncidentList, o.IncidentList)
	pick(&r.Incident, o.Incident)
	if o.PublicRegistration != nil {
		v := *o.PublicRegistration
		r.PublicRegistration = &v
	}
	return r
}

// publicRegistration defaults to true.
func (r Routes) publicRegistration() bool {
	return r.PublicRegistration == nil || *r.PublicRegistration
}

func withID(tmpl string, id int64) string {
	return strings.ReplaceAll(tmpl, "{id}", strconv.FormatInt(id, 10))
}
