package environment

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Profile Profile
	Config  Config
	Logger  *zap.SugaredLogger
}

// Server hands out the record to clients that fetch it at runtime. All
// documents are rendered once, so every response within a process is
// byte-identical and shares the same ETag.
type Server struct {
	logger    *zap.SugaredLogger
	etag      string
	documents map[Format][]byte
}

func NewServer(config ServerConfig) (*Server, error) {
	if err := config.Config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	documents := make(map[Format][]byte)
	for _, f := range []Format{FormatJSON, FormatTypeScript} {
		var buf bytes.Buffer
		if err := Render(&buf, config.Profile, config.Config, f); err != nil {
			return nil, err
		}
		documents[f] = buf.Bytes()
	}

	return &Server{
		logger:    logger,
		etag:      `"` + ulid.Make().String() + `"`,
		documents: documents,
	}, nil
}

func (s *Server) ETag() string {
	return s.etag
}

func (s *Server) JSON(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, FormatJSON)
}

func (s *Server) TypeScript(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, FormatTypeScript)
}

// notModified reports whether an If-None-Match value matches the ETag.
// Comparison is weak, so W/ prefixes added by proxies still match.
func (s *Server) notModified(header string) bool {
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" {
			return true
		}
		if strings.TrimPrefix(tag, "W/") == s.etag {
			return true
		}
	}
	return false
}

func (s *Server) send(w http.ResponseWriter, r *http.Request, f Format) {
	w.Header().Set("ETag", s.etag)
	w.Header().Set("Cache-Control", "no-cache")

	if s.notModified(r.Header.Get("If-None-Match")) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(s.documents[f]); err != nil {
		s.logger.Errorf("unable to write %s document: %s", f, err)
	}
}
