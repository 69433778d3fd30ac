package job

import (
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
)

type Service struct {
	JobChannel        chan docModel.IngestJob
	RequestCount      int64
	DispatcherChannel chan bool
	DocumentStore     docModel.DocumentStore
}

type ServiceConfig struct {
	JobChannel        chan docModel.IngestJob
	RequestCount      int64
	DispatcherChannel chan bool
	DocumentStore     docModel.DocumentStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		DocumentStore:     cfg.DocumentStore,
	}
}
