package codegen

import (
	"context"
	"runtime"
	"sort"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/codegen/sink"
	"github.com/aws/smithy-go-codegen/logging"
	"github.com/aws/smithy-go-codegen/traits"
)

// Names of the files a generation run writes.
const (
	SerializersFile   = "serializers.go"
	DeserializersFile = "deserializers.go"
	EventStreamFile   = "eventstream.go"
)

// unsupportedTraits are traits whose behavior emitted code leaves out.
var unsupportedTraits = []string{
	(*traits.IdempotencyToken)(nil).TraitID(),
	(*traits.HTTPChecksumRequired)(nil).TraitID(),
	(*traits.Endpoint)(nil).TraitID(),
	(*traits.HostLabel)(nil).TraitID(),
	(*traits.RequestCompression)(nil).TraitID(),
}

// fragments is the code emitted for one operation, kept apart until every
// operation is done so files are assembled in a stable order.
type fragments struct {
	serializer   *Writer
	deserializer *Writer
	eventStream  *Writer
	tests        *Writer
}

// Generate emits the protocol layer of the service in gc and writes it to
// s. Operations are generated concurrently; the output does not depend on
// scheduling.
func Generate(ctx context.Context, gc *GenerationContext, s sink.Sink) error {
	ops := gc.Operations()
	errs := errorShapes(ops)

	limit := gc.Settings.Parallelism
	if limit == 0 {
		limit = runtime.NumCPU()
	}

	opFragments := make([]fragments, len(ops))
	errFragments := make([]*Writer, len(errs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, op := range ops {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := generateOperation(gctx, gc, op)
			if err != nil {
				return err
			}
			opFragments[i] = f
			return nil
		})
	}
	for i, e := range errs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w := NewWriter(gc.Settings.Package)
			if err := gc.Protocol.GenerateErrorDeserializer(gc, e, w); err != nil {
				return err
			}
			errFragments[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	testFile := ProtocolTestFilename(gc.Protocol.Protocol())
	for _, f := range opFragments {
		gc.Writers.UseFileWriter(SerializersFile, func(w *Writer) { w.Append(f.serializer) })
		gc.Writers.UseFileWriter(DeserializersFile, func(w *Writer) { w.Append(f.deserializer) })
		gc.Writers.UseFileWriter(EventStreamFile, func(w *Writer) { w.Append(f.eventStream) })
		gc.Writers.UseFileWriter(testFile, func(w *Writer) { w.Append(f.tests) })
	}
	for _, ew := range errFragments {
		gc.Writers.UseFileWriter(DeserializersFile, func(w *Writer) { w.Append(ew) })
	}

	return gc.Writers.Flush(ctx, s)
}

func generateOperation(ctx context.Context, gc *GenerationContext, op *smithy.Operation) (fragments, error) {
	logger := logging.WithContext(logging.WithOperation(ctx, op.ID().String()), gc.Logger)
	logger.Logf(logging.Debug, "generating operation %s", op.ID())
	warnUnsupported(logger, op)

	pkg := gc.Settings.Package
	f := fragments{
		serializer:   NewWriter(pkg),
		deserializer: NewWriter(pkg),
		eventStream:  NewWriter(pkg),
		tests:        NewWriter(pkg),
	}
	p := gc.Protocol

	if err := p.GenerateRequestSerializer(gc, op, f.serializer); err != nil {
		return f, err
	}
	if err := p.GenerateResponseDeserializer(gc, op, f.deserializer); err != nil {
		return f, err
	}
	if err := p.GenerateErrorDispatcher(gc, op, f.deserializer); err != nil {
		return f, err
	}
	if err := p.GenerateEventStream(gc, op, f.eventStream); err != nil {
		return f, err
	}

	tgc := *gc
	tgc.Logger = logger
	if err := p.GenerateProtocolTests(&tgc, op, f.tests); err != nil {
		return f, err
	}
	return f, nil
}

// warnUnsupported logs the traits on op and its input members that
// emitted code does not implement.
func warnUnsupported(logger logging.Logger, op *smithy.Operation) {
	shapes := append([]*smithy.Schema{op.Schema}, op.Input.Members()...)
	for _, s := range shapes {
		for _, id := range unsupportedTraits {
			if !s.HasTrait(id) {
				continue
			}
			where := op.ID().String()
			if s.IsMember() {
				where += " member " + s.MemberName()
			}
			logger.Logf(logging.Warn, "%s: trait %s is not supported", where, id)
		}
	}
}

// errorShapes returns the distinct errors of ops sorted by shape ID.
func errorShapes(ops []*smithy.Operation) []*smithy.Schema {
	seen := map[smithy.ShapeID]*smithy.Schema{}
	for _, op := range ops {
		for _, e := range op.Errors {
			seen[e.ID()] = e
		}
	}

	out := make([]*smithy.Schema, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID().String() < out[j].ID().String()
	})
	return out
}

// ErrorKind describes the class of generation error err belongs to.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrMultiplePayloads):
		return "multiple payloads"
	case errors.Is(err, ErrInvalidModel):
		return "invalid model"
	case errors.Is(err, ErrUnknownShape):
		return "unknown shape"
	case errors.Is(err, ErrUnsupported):
		return "unsupported feature"
	default:
		return "generation failed"
	}
}
