package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"

	"github.com/aws/smithy-go-codegen/codegen"
	"github.com/aws/smithy-go-codegen/codegen/restjson"
	"github.com/aws/smithy-go-codegen/codegen/sink"
	"github.com/aws/smithy-go-codegen/logging"
	"github.com/aws/smithy-go-codegen/model"
)

type CLI struct {
	Generate GenerateCmd `cmd:"" help:"Generate the protocol layer of a service."`
	Skipped  SkippedCmd  `cmd:"" help:"List the protocol tests generation skips."`
}

// protocols maps protocol trait IDs to their generators.
var protocols = map[string]func(codegen.SkipList) codegen.ProtocolGenerator{
	restjson.Protocol: func(skip codegen.SkipList) codegen.ProtocolGenerator {
		return restjson.NewWithSkipList(skip)
	},
}

func protocolFor(id string) (codegen.ProtocolGenerator, error) {
	newGenerator, ok := protocols[id]
	if !ok {
		return nil, errors.Newf("no generator for protocol %s", id)
	}
	return newGenerator(restjson.DefaultSkipList()), nil
}

type GenerateCmd struct {
	Model    string `arg:"" help:"Smithy JSON AST model file." type:"existingfile"`
	Settings string `help:"Generator settings file." short:"s" default:"smithy-go-codegen.yaml" type:"existingfile"`
	Out      string `help:"Output directory for generated files." short:"o" default:"."`
	Verbose  bool   `help:"Log every operation generated." short:"v"`
	DryRun   bool   `help:"Generate without writing, and list the files that would be written." name:"dry-run"`
}

func (c *GenerateCmd) Run() error {
	logger, err := logging.NewDevelopmentLogger(c.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	settings, err := codegen.LoadSettingsFile(c.Settings)
	if err != nil {
		return err
	}
	m, err := model.LoadFile(c.Model)
	if err != nil {
		return err
	}
	protocol, err := protocolFor(settings.Protocol)
	if err != nil {
		return err
	}

	gc, err := codegen.NewGenerationContext(m, settings, protocol, logger)
	if err != nil {
		return err
	}

	var s sink.Sink = sink.NewFilesystemSink(c.Out)
	mem := sink.NewMemorySink()
	if c.DryRun {
		s = mem
	}

	if err := codegen.Generate(context.Background(), gc, s); err != nil {
		return err
	}

	if c.DryRun {
		for _, path := range mem.Paths() {
			fmt.Printf("%s\t%d bytes\n", path, len(mem.Get(path)))
		}
		return nil
	}
	logger.Logf(logging.Info, "generated %s into %s", settings.Service, c.Out)
	return nil
}

type SkippedCmd struct {
	Protocol string `help:"Protocol trait ID." default:"aws.protocols#restJson1"`
	Settings string `help:"Settings file whose skipTests are added." short:"s" type:"existingfile"`
	Model    string `help:"Also list the protocol tests of this model that cannot be generated. Requires --settings." short:"m" type:"existingfile"`
}

// skippedTest is a protocol test left out of generation, and why.
type skippedTest struct {
	ID     string
	Reason string
}

const (
	reasonSkipped     = "skipped"
	reasonUnsupported = "unsupported"
)

func (c *SkippedCmd) list() ([]skippedTest, error) {
	if _, err := protocolFor(c.Protocol); err != nil {
		return nil, err
	}
	if c.Model != "" && c.Settings == "" {
		return nil, errors.New("--model requires --settings")
	}

	skip := restjson.DefaultSkipList()
	var settings *codegen.Settings
	if c.Settings != "" {
		var err error
		settings, err = codegen.LoadSettingsFile(c.Settings)
		if err != nil {
			return nil, err
		}
		skip = skip.With(settings.SkipTests...)
	}

	var out []skippedTest
	for _, id := range skip.IDs() {
		out = append(out, skippedTest{ID: id, Reason: reasonSkipped})
	}
	if c.Model == "" {
		return out, nil
	}

	m, err := model.LoadFile(c.Model)
	if err != nil {
		return nil, err
	}
	protocol, err := protocolFor(settings.Protocol)
	if err != nil {
		return nil, err
	}
	gc, err := codegen.NewGenerationContext(m, settings, protocol, nil)
	if err != nil {
		return nil, err
	}
	ids, err := protocol.UnsupportedProtocolTests(gc)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out = append(out, skippedTest{ID: id, Reason: reasonUnsupported})
	}
	return out, nil
}

func (c *SkippedCmd) Run() error {
	tests, err := c.list()
	if err != nil {
		return err
	}
	for _, t := range tests {
		fmt.Printf("%s\t%s\n", t.ID, t.Reason)
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("smithy-go-codegen"),
		kong.Description("Generate Go protocol serializers, deserializers and tests from a Smithy model."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error (%s): %v\n", codegen.ErrorKind(err), err)
		os.Exit(1)
	}
}
