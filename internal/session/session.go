package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/export"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/metrics"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/selection"
)

var (
	// ErrGenerationInFlight is returned when a generation is triggered while
	// another one for the same session has not resolved yet.
	ErrGenerationInFlight = errors.New("generation already in progress")
	// ErrFileIndex is returned when the active file index is out of range.
	ErrFileIndex = errors.New("file index out of range")
	// ErrNoActiveFile is returned when there is no file to act on.
	ErrNoActiveFile = errors.New("no active file")
)

const subscriberBuffer = 8

// Runner produces the files for a generation request. It must not fail;
// failures are expected to come back as a synthetic file record.
type Runner interface {
	Run(ctx context.Context, req models.GenerationRequest) []models.GeneratedFile
}

// Clipboard receives the content of the active file.
type Clipboard interface {
	WriteAll(text string) error
}

// Options carries the optional collaborators of a Session.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.GenerationMetrics
}

// State is a point-in-time view of a session, safe to serialize.
type State struct {
	ID               string                 `json:"session_id"`
	Selection        selection.Selection    `json:"selection"`
	Candidates       []catalog.Service      `json:"candidates"`
	CoreOptions      []string               `json:"core_options"`
	ComponentOptions []string               `json:"component_options"`
	VersionOptions   []string               `json:"version_options"`
	Ready            bool                   `json:"ready"`
	Generating       bool                   `json:"generating"`
	Files            []models.GeneratedFile `json:"files"`
	ActiveIndex      int                    `json:"active_index"`
	ArchiveName      string                 `json:"archive_name"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Session is one user's configurator: the selection machine, the generated
// files and the in-flight flag. All methods are safe for concurrent use.
type Session struct {
	id      string
	logger  *zap.Logger
	metrics *metrics.GenerationMetrics

	mu          sync.Mutex
	machine     *selection.Machine
	files       []models.GeneratedFile
	active      int
	generating  bool
	updatedAt   time.Time
	subscribers map[int]chan State
	nextSub     int
	closed      bool
}

// New creates a session with an empty selection.
func New(id string, provider catalog.Provider, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:          id,
		logger:      logger.With(zap.String("session_id", id)),
		metrics:     opts.Metrics,
		machine:     selection.NewMachine(provider),
		updatedAt:   time.Now(),
		subscribers: make(map[int]chan State),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SelectDomain resets the whole form, including generated files.
func (s *Session) SelectDomain(domainID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.machine.SelectDomain(domainID)
	s.clearFilesLocked()
	s.changedLocked()
}

// SelectService picks a service of the current domain by ID or name and
// drops any previously generated files.
func (s *Session) SelectService(idOrName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.SelectServiceByID(idOrName); err != nil {
		return err
	}
	s.clearFilesLocked()
	s.changedLocked()
	return nil
}

// SelectStack picks a stack by ID.
func (s *Session) SelectStack(id string) error {
	return s.apply(func(m *selection.Machine) error { return m.SelectStackByID(id) })
}

// SelectCoreLanguage picks one of the current stack's core languages.
func (s *Session) SelectCoreLanguage(name string) error {
	return s.apply(func(m *selection.Machine) error { return m.SelectCoreLanguage(name) })
}

// SelectComponent picks one of the current stack's components.
func (s *Session) SelectComponent(name string) error {
	return s.apply(func(m *selection.Machine) error { return m.SelectComponent(name) })
}

// SelectVersion picks one of the current stack's versions.
func (s *Session) SelectVersion(name string) error {
	return s.apply(func(m *selection.Machine) error { return m.SelectVersion(name) })
}

// SetPrompt replaces the free-text constraints.
func (s *Session) SetPrompt(text string) {
	_ = s.apply(func(m *selection.Machine) error {
		m.SetPrompt(text)
		return nil
	})
}

// Search filters the current domain's services without changing state.
func (s *Session) Search(query string) []catalog.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Search(query)
}

func (s *Session) apply(fn func(m *selection.Machine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.machine); err != nil {
		return err
	}
	s.changedLocked()
	return nil
}

// Generate runs one generation for the current selection. It is a no-op
// returning selection.ErrNotReady when service or stack is missing, and
// ErrGenerationInFlight while a previous call has not returned. The runner
// is called without holding the session lock; the in-flight flag is cleared
// even if it panics.
func (s *Session) Generate(ctx context.Context, runner Runner) error {
	ctx, span := otel.Tracer("session").Start(ctx, "session.generate")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", s.id))

	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return ErrGenerationInFlight
	}
	req, err := s.machine.Request()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.generating = true
	s.clearFilesLocked()
	s.changedLocked()
	s.mu.Unlock()

	s.logger.Info("Generation started",
		zap.String("service", req.ServiceName),
		zap.String("stack", req.StackName),
		zap.String("version", req.Version))

	var files []models.GeneratedFile
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.files = files
		s.active = 0
		s.generating = false
		s.changedLocked()
	}()

	files = runner.Run(ctx, req)
	span.SetAttributes(attribute.Int("session.files", len(files)))
	return nil
}

// IsGenerating reports whether a generation is in flight.
func (s *Session) IsGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// Files returns a copy of the generated files.
func (s *Session) Files() []models.GeneratedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GeneratedFile{}, s.files...)
}

// SetActiveFile selects the file shown in the preview.
func (s *Session) SetActiveFile(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.files) {
		return fmt.Errorf("%w: %d of %d", ErrFileIndex, index, len(s.files))
	}
	s.active = index
	s.changedLocked()
	return nil
}

// ActiveFile returns the file shown in the preview.
func (s *Session) ActiveFile() (models.GeneratedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.files) == 0 {
		return models.GeneratedFile{}, ErrNoActiveFile
	}
	return s.files[s.active], nil
}

// CopyActive writes the active file to the clipboard. Clipboard failures
// are logged and reported as false, never returned.
func (s *Session) CopyActive(cb Clipboard) bool {
	file, err := s.ActiveFile()
	if err != nil {
		return false
	}
	if err := cb.WriteAll(file.Content); err != nil {
		s.logger.Warn("Clipboard write failed", zap.String("file", file.Name), zap.Error(err))
		return false
	}
	return true
}

// Archive packs the generated files. On failure nothing is returned
// besides the error; the session state is untouched.
func (s *Session) Archive(ctx context.Context) (string, []byte, error) {
	s.mu.Lock()
	files := append([]models.GeneratedFile{}, s.files...)
	name := s.archiveNameLocked()
	s.mu.Unlock()

	data, err := export.Build(files)
	if s.metrics != nil {
		s.metrics.RecordArchive(ctx, len(files), err)
	}
	if err != nil {
		s.logger.Error("Archive build failed", zap.Int("files", len(files)), zap.Error(err))
		return "", nil, err
	}
	return name, data, nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a State after every change, and a
// function that stops the subscription. Slow readers miss intermediate
// states rather than blocking the session.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close ends every subscription. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *Session) clearFilesLocked() {
	s.files = nil
	s.active = 0
}

func (s *Session) archiveNameLocked() string {
	sel := s.machine.Selection()
	if sel.Service == nil {
		return export.ArchiveName("")
	}
	return export.ArchiveName(sel.Service.Name)
}

func (s *Session) snapshotLocked() State {
	return State{
		ID:               s.id,
		Selection:        s.machine.Selection(),
		Candidates:       s.machine.Candidates(),
		CoreOptions:      s.machine.CoreOptions(),
		ComponentOptions: s.machine.ComponentOptions(),
		VersionOptions:   s.machine.VersionOptions(),
		Ready:            s.machine.IsReadyToGenerate(),
		Generating:       s.generating,
		Files:            append([]models.GeneratedFile{}, s.files...),
		ActiveIndex:      s.active,
		ArchiveName:      s.archiveNameLocked(),
		UpdatedAt:        s.updatedAt,
	}
}

func (s *Session) changedLocked() {
	s.updatedAt = time.Now()
	if len(s.subscribers) == 0 {
		return
	}
	state := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- state:
		default:
		}
	}
}
