package plan

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/matroska.schema.json
var muxSchema []byte

//go:embed schema/extract.schema.json
var extractSchema []byte

type muxDocument struct {
	Sources []struct {
		Filename string    `json:"filename"`
		Options  OptionMap `json:"options"`
	} `json:"sources"`
	Tracks []struct {
		Source  int       `json:"source"`
		Track   int       `json:"track"`
		Options OptionMap `json:"options"`
	} `json:"tracks"`
	OutputFile  string    `json:"output_file"`
	Options     OptionMap `json:"options"`
	Attachments []struct {
		Filename  string `json:"filename"`
		Name      string `json:"name"`
		MIMEType  string `json:"mimetype"`
		Directory string `json:"directory"`
	} `json:"attachments"`
	TrackOrder []string `json:"track_order"`
}

// Load reads and parses a mux plan document from disk.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan document: %w", err)
	}
	return Parse(data)
}

// Parse validates a mux plan document against the embedded schema and
// builds the internal model. Schema violations surface as ValidationError.
func Parse(data []byte) (*Plan, error) {
	if err := validateDocument(muxSchema, data); err != nil {
		return nil, err
	}

	var doc muxDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newValidationError(err.Error())
	}

	p := &Plan{
		OutputFile:    doc.OutputFile,
		GlobalOptions: doc.Options,
		TrackOrder:    doc.TrackOrder,
	}
	for _, src := range doc.Sources {
		p.Sources = append(p.Sources, Source{Filename: src.Filename, Options: src.Options})
	}
	for _, trk := range doc.Tracks {
		p.Tracks = append(p.Tracks, TrackRef{
			Source:   trk.Source,
			Selector: ByOrdinal(trk.Track),
			Options:  trk.Options,
		})
	}
	for _, att := range doc.Attachments {
		if att.Directory != "" {
			p.Attachments = append(p.Attachments, AttachmentEntry{Dir: &AttachmentDir{Path: att.Directory}})
			continue
		}
		p.Attachments = append(p.Attachments, AttachmentEntry{File: &Attachment{
			Name:     att.Name,
			Filename: att.Filename,
			MIMEType: att.MIMEType,
		}})
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func validateDocument(schema, document []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return newValidationError(err.Error())
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return newValidationError(details...)
}
