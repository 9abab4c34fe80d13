package vercel

import (
	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/sirupsen/logrus"
)

const (
	OrgIDEnv     = "VERCEL_ORG_ID"
	ProjectIDEnv = "VERCEL_PROJECT_ID"
)

type variableExporter interface {
	ExportVariable(name string, value string) error
}

// Environment exports the project identifiers the CLI reads instead of .vercel/project.json
type Environment struct {
	exporter variableExporter
}

func NewEnvironment(exporter variableExporter) *Environment {
	return &Environment{
		exporter: exporter,
	}
}

// Configure sets only the values that are present, absent ones are left untouched
func (e *Environment) Configure(config dx.DeployConfig) error {
	logrus.Info("[Set env starts]")
	if config.OrgID != "" {
		err := e.exporter.ExportVariable(OrgIDEnv, config.OrgID)
		if err != nil {
			return err
		}
	}
	if config.ProjectID != "" {
		err := e.exporter.ExportVariable(ProjectIDEnv, config.ProjectID)
		if err != nil {
			return err
		}
	}
	logrus.Info("[Set env ends]")
	return nil
}
