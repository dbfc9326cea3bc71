package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/topicmap/pkg/document"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/store"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// =============================================================================
// Query parsing
// =============================================================================

// pipelineOptions reads layout and render options from the query string,
// falling back to the server configuration.
func (s *Server) pipelineOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Iterations:   s.cfg.Iterations,
		Seed:         s.cfg.Seed,
		LinkTemplate: s.cfg.LinkTemplate,
	}

	if v := q.Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "iterations must be a non-negative integer, got %q", v)
		}
		opts.Iterations = n
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v)
		}
		opts.Seed = n
	}
	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, v)
		}
		*dst = f
	}
	if v := q.Get("format"); v != "" {
		opts.Formats = pipeline.ParseFormats(v)
	}
	if q.Has("link") {
		opts.LinkTemplate = q.Get("link")
	}
	if v := q.Get("tooltips"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "tooltips must be a boolean, got %q", v)
		}
		opts.Tooltips = b
	}
	return opts, nil
}

func boolQuery(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

func decodeTree(data []byte) (topic.Tree, error) {
	t, err := topic.Decode(data)
	if err != nil {
		return topic.Tree{}, errors.Wrap(errors.ErrCodeInvalidTree, err, "invalid topic tree")
	}
	return t, nil
}

// =============================================================================
// Layout and render
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.pipelineOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	tree, err := decodeTree(data)
	if err != nil {
		writeError(w, err)
		return
	}

	layout, err := s.runner.ComputeLayout(r.Context(), tree, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.pipelineOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	var layout graph.Layout
	if graph.LooksLikeLayout(data) {
		layout, err = graph.UnmarshalLayout(data)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid layout")
		}
	} else {
		var tree topic.Tree
		if tree, err = decodeTree(data); err == nil {
			layout, err = s.runner.ComputeLayout(r.Context(), tree, opts)
		}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeArtifact(w, r, layout, opts)
}

// writeArtifact renders layout in the single requested format (SVG when
// none is given) and writes it with the matching content type.
func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, layout graph.Layout, opts pipeline.Options) {
	if len(opts.Formats) > 1 {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "exactly one format per request, got %s", strings.Join(opts.Formats, ",")))
		return
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	format := opts.Formats[0]

	artifacts, err := s.runner.Render(r.Context(), layout, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

// =============================================================================
// Generation
// =============================================================================

type generateResponse struct {
	Trees []topic.Tree `json:"trees"`
	Maps  []store.Map  `json:"maps,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid multipart upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, `no documents uploaded in the "file" field`))
		return
	}
	save := boolQuery(r, "save")
	if save && s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no map store configured"))
		return
	}

	docs := make([]*document.Document, 0, len(files))
	names := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "open %s", fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", fh.Filename))
			return
		}
		doc, err := document.FromBytes(fh.Filename, data)
		if err != nil {
			writeError(w, err)
			return
		}
		docs = append(docs, doc)
		names = append(names, doc.Name)
	}

	trees, err := s.runner.Generate(r.Context(), pipeline.Options{
		Documents: docs,
		Refresh:   boolQuery(r, "refresh"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := generateResponse{Trees: trees}
	if save {
		for _, t := range trees {
			m := &store.Map{UserID: userID(r), Tree: t, Source: strings.Join(names, ", ")}
			if err := s.store.CreateMap(r.Context(), m); err != nil {
				writeError(w, err)
				return
			}
			resp.Maps = append(resp.Maps, *m)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
