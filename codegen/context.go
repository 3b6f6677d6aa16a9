package codegen

import (
	"github.com/cockroachdb/errors"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/logging"
)

// GenerationContext holds the state of one generation run. It is built once
// and is read only afterwards, except for the writer delegator which is safe
// for concurrent use.
type GenerationContext struct {
	Model    *smithy.Model
	Service  *smithy.Service
	Settings *Settings
	Symbols  *SymbolProvider
	Writers  *WriterDelegator
	Logger   logging.Logger
	Protocol ProtocolGenerator
}

// NewGenerationContext resolves the configured service in m.
func NewGenerationContext(
	m *smithy.Model, settings *Settings, protocol ProtocolGenerator, logger logging.Logger,
) (*GenerationContext, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	svc, ok := m.Service(smithy.ParseShapeID(settings.Service))
	if !ok {
		return nil, errors.Mark(errors.Newf("service %s not found in model", settings.Service), ErrUnknownShape)
	}
	if settings.Protocol != protocol.Protocol() {
		return nil, errors.Newf("settings select protocol %s, generator implements %s", settings.Protocol, protocol.Protocol())
	}
	if !svc.HasTrait(protocol.Protocol()) {
		return nil, errors.Mark(
			errors.Newf("service %s does not support protocol %s", settings.Service, protocol.Protocol()),
			ErrInvalidModel)
	}
	if logger == nil {
		logger = logging.Noop{}
	}

	return &GenerationContext{
		Model:    m,
		Service:  svc,
		Settings: settings,
		Symbols:  NewSymbolProvider(),
		Writers:  NewWriterDelegator(settings.Package),
		Logger:   logger,
		Protocol: protocol,
	}, nil
}

// Operations returns the service's operations sorted by shape ID.
func (c *GenerationContext) Operations() []*smithy.Operation {
	ops := append([]*smithy.Operation(nil), c.Service.Operations...)
	sortOperations(ops)
	return ops
}
