package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/gedgraph/internal/export"
	"github.com/dusk-indust/gedgraph/internal/gedcom"
	"github.com/dusk-indust/gedgraph/internal/graph"
	"github.com/dusk-indust/gedgraph/internal/match"
)

const (
	defaultMaxDepth  = 10
	defaultFindLimit = 50
)

// GenealogyService holds the loaded documents used by MCP tool handlers.
// Each document is addressed by the handle load_gedcom returns and carries
// its own in-memory family graph.
type GenealogyService struct {
	mu       sync.RWMutex
	docs     map[uuid.UUID]*loadedDoc
	logger   *slog.Logger
	opts     []gedcom.Option
	maxDepth int
}

type loadedDoc struct {
	path  string
	doc   *gedcom.Document
	store graph.Store
}

// NewGenealogyService creates a GenealogyService. opts are applied to every
// document it parses.
func NewGenealogyService(logger *slog.Logger, opts ...gedcom.Option) *GenealogyService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GenealogyService{
		docs:     make(map[uuid.UUID]*loadedDoc),
		logger:   logger,
		opts:     opts,
		maxDepth: defaultMaxDepth,
	}
}

// SetMaxDepth sets the lineage depth used when a request leaves it unset.
func (s *GenealogyService) SetMaxDepth(n int) {
	if n > 0 {
		s.maxDepth = n
	}
}

// Close releases every loaded document.
func (s *GenealogyService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for id, d := range s.docs {
		errs = append(errs, d.store.Close())
		delete(s.docs, id)
		loadedDocuments.Dec()
	}
	return errors.Join(errs...)
}

func parseHandle(handle string) (uuid.UUID, error) {
	if handle == "" {
		return uuid.Nil, fmt.Errorf("handle is required")
	}
	id, err := uuid.Parse(handle)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid handle %q: %w", handle, err)
	}
	return id, nil
}

func (s *GenealogyService) lookup(handle string) (*loadedDoc, error) {
	id, err := parseHandle(handle)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("no document loaded under handle %s", handle)
	}
	return d, nil
}

func (d *loadedDoc) individual(field, xref string) (*gedcom.Individual, error) {
	if xref == "" {
		return nil, fmt.Errorf("%s is required", field)
	}
	return d.doc.Individual(xref)
}

func personNodes(list []*gedcom.Individual) []graph.PersonNode {
	out := make([]graph.PersonNode, 0, len(list))
	for _, ind := range list {
		out = append(out, graph.PersonFromIndividual(ind))
	}
	return out
}

// LoadGedcom parses a file, mirrors it into a fresh in-memory graph and
// registers it under a new handle.
func (s *GenealogyService) LoadGedcom(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadGedcomInput,
) (*mcp.CallToolResult, LoadGedcomOutput, error) {
	if input.Path == "" {
		return nil, LoadGedcomOutput{}, fmt.Errorf("path is required")
	}

	opts := append([]gedcom.Option{gedcom.WithLogger(s.logger)}, s.opts...)
	if input.FrontEnd != "" {
		opts = append(opts, gedcom.WithFrontEnd(gedcom.FrontEnd(input.FrontEnd)))
	}
	doc, err := gedcom.ParseFile(input.Path, opts...)
	if err != nil {
		return nil, LoadGedcomOutput{}, err
	}

	store := graph.NewMemStore()
	stats, err := graph.Build(ctx, store, doc)
	if err != nil {
		store.Close()
		return nil, LoadGedcomOutput{}, fmt.Errorf("build graph: %w", err)
	}

	id := uuid.New()
	s.mu.Lock()
	s.docs[id] = &loadedDoc{path: input.Path, doc: doc, store: store}
	s.mu.Unlock()
	loadedDocuments.Inc()

	s.logger.Info("loaded document", "path", input.Path, "handle", id.String(), "persons", stats.PersonCount)
	return nil, LoadGedcomOutput{Handle: id.String(), Path: input.Path, Stats: *stats}, nil
}

// UnloadGedcom forgets a loaded document.
func (s *GenealogyService) UnloadGedcom(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input UnloadGedcomInput,
) (*mcp.CallToolResult, UnloadGedcomOutput, error) {
	id, err := parseHandle(input.Handle)
	if err != nil {
		return nil, UnloadGedcomOutput{}, err
	}

	// Check and delete under one lock so only one caller closes the store.
	s.mu.Lock()
	d, ok := s.docs[id]
	if ok {
		delete(s.docs, id)
	}
	s.mu.Unlock()
	if !ok {
		return nil, UnloadGedcomOutput{}, fmt.Errorf("no document loaded under handle %s", input.Handle)
	}
	loadedDocuments.Dec()
	return nil, UnloadGedcomOutput{Removed: true}, d.store.Close()
}

// FindIndividuals filters a document's individuals by name, birth year, sex
// and liveness.
func (s *GenealogyService) FindIndividuals(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FindIndividualsInput,
) (*mcp.CallToolResult, FindIndividualsOutput, error) {
	d, err := s.lookup(input.Handle)
	if err != nil {
		return nil, FindIndividualsOutput{}, err
	}

	var preds []match.Predicate
	if input.Surname != "" {
		preds = append(preds, match.SurnameContains(input.Surname))
	}
	if input.Given != "" {
		preds = append(preds, match.GivenContains(input.Given))
	}
	if input.BornFrom != 0 || input.BornTo != 0 {
		from, to := input.BornFrom, input.BornTo
		if from == 0 {
			from = math.MinInt
		}
		if to == 0 {
			to = math.MaxInt
		}
		preds = append(preds, match.BornBetween(from, to))
	}
	if input.Sex != "" {
		preds = append(preds, match.Sex(input.Sex))
	}
	if input.LivingOnly {
		preds = append(preds, match.Alive())
	}

	found := match.Filter(d.doc.Individuals(), preds...)
	total := len(found)
	limit := input.Limit
	if limit <= 0 {
		limit = defaultFindLimit
	}
	if len(found) > limit {
		found = found[:limit]
	}

	return nil, FindIndividualsOutput{
		Individuals: personNodes(found),
		Total:       total,
	}, nil
}

// GetIndividual returns one individual with its parents and children.
func (s *GenealogyService) GetIndividual(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetIndividualInput,
) (*mcp.CallToolResult, GetIndividualOutput, error) {
	d, err := s.lookup(input.Handle)
	if err != nil {
		return nil, GetIndividualOutput{}, err
	}
	ind, err := d.individual("xref", input.XRef)
	if err != nil {
		return nil, GetIndividualOutput{}, err
	}
	return nil, GetIndividualOutput{
		Individual: export.ExportIndividual(ind),
		Parents:    personNodes(ind.Parents()),
		Children:   personNodes(ind.Children()),
	}, nil
}

// CommonAncestors returns the closest shared ancestors of two individuals.
func (s *GenealogyService) CommonAncestors(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PairInput,
) (*mcp.CallToolResult, CommonAncestorsOutput, error) {
	a, b, err := s.pair(input.Handle, input.From, input.To)
	if err != nil {
		return nil, CommonAncestorsOutput{}, err
	}
	return nil, CommonAncestorsOutput{Ancestors: personNodes(gedcom.CommonAncestors(a, b))}, nil
}

// RelationshipPath returns the path from one individual to a relative
// through their closest common ancestor.
func (s *GenealogyService) RelationshipPath(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RelationshipPathInput,
) (*mcp.CallToolResult, RelationshipPathOutput, error) {
	from, to, err := s.pair(input.Handle, input.From, input.To)
	if err != nil {
		return nil, RelationshipPathOutput{}, err
	}
	steps, ok := from.PathToRelative(to, input.Compact)
	if !ok {
		return nil, RelationshipPathOutput{Steps: []PathStep{}}, nil
	}
	out := RelationshipPathOutput{Related: true, Steps: make([]PathStep, 0, len(steps))}
	for _, st := range steps {
		out.Steps = append(out.Steps, PathStep{
			XRef:     st.Individual.XRef(),
			Name:     st.Individual.FullName(),
			Relation: string(st.Relation),
		})
	}
	return nil, out, nil
}

// DistanceToAncestor counts the generations between a descendant and one of
// its ancestors.
func (s *GenealogyService) DistanceToAncestor(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PairInput,
) (*mcp.CallToolResult, DistanceToAncestorOutput, error) {
	descendant, ancestor, err := s.pair(input.Handle, input.From, input.To)
	if err != nil {
		return nil, DistanceToAncestorOutput{}, err
	}
	n, ok := descendant.DistanceToAncestor(ancestor)
	return nil, DistanceToAncestorOutput{Found: ok, Distance: n}, nil
}

// GetLineage traverses the family graph up or down from one individual.
func (s *GenealogyService) GetLineage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetLineageInput,
) (*mcp.CallToolResult, GetLineageOutput, error) {
	d, err := s.lookup(input.Handle)
	if err != nil {
		return nil, GetLineageOutput{}, err
	}
	ind, err := d.individual("xref", input.XRef)
	if err != nil {
		return nil, GetLineageOutput{}, err
	}

	direction, ok := graph.ParseDirection(input.Direction)
	if !ok {
		return nil, GetLineageOutput{}, fmt.Errorf("unknown direction %q", input.Direction)
	}
	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = s.maxDepth
	}

	chains, err := d.store.GetLineage(ctx, ind.XRef(), direction, maxDepth)
	if err != nil {
		return nil, GetLineageOutput{}, fmt.Errorf("get lineage: %w", err)
	}
	return nil, GetLineageOutput{Chains: chains}, nil
}

func (s *GenealogyService) pair(handle, from, to string) (*gedcom.Individual, *gedcom.Individual, error) {
	d, err := s.lookup(handle)
	if err != nil {
		return nil, nil, err
	}
	a, err := d.individual("from", from)
	if err != nil {
		return nil, nil, err
	}
	b, err := d.individual("to", to)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
