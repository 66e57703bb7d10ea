package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/fixture-sync/internal/domain/taxonomy"
)

type recordKindKey struct {
	recordID int64
	kind     taxonomy.Kind
}

type TaxonomyRepository struct {
	mu          sync.RWMutex
	nextTermID  int64
	terms       map[int64]taxonomy.Term
	teamTerms   map[int64]int64
	leagueTerms map[int64]int64
	recordTerms map[recordKindKey][]int64
}

func NewTaxonomyRepository() *TaxonomyRepository {
	return &TaxonomyRepository{
		terms:       make(map[int64]taxonomy.Term),
		teamTerms:   make(map[int64]int64),
		leagueTerms: make(map[int64]int64),
		recordTerms: make(map[recordKindKey][]int64),
	}
}

func (r *TaxonomyRepository) TeamCategory(_ context.Context, teamID int64) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	termID, ok := r.teamTerms[teamID]
	return termID, ok, nil
}

func (r *TaxonomyRepository) SetTeamCategory(_ context.Context, teamID, termID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.terms[termID]; !ok {
		return fmt.Errorf("term id=%d not found", termID)
	}
	r.teamTerms[teamID] = termID
	return nil
}

func (r *TaxonomyRepository) LeagueCompetition(_ context.Context, leagueID int64) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	termID, ok := r.leagueTerms[leagueID]
	return termID, ok, nil
}

func (r *TaxonomyRepository) SetLeagueCompetition(_ context.Context, leagueID, termID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.terms[termID]; !ok {
		return fmt.Errorf("term id=%d not found", termID)
	}
	r.leagueTerms[leagueID] = termID
	return nil
}

func (r *TaxonomyRepository) EnsureTerm(_ context.Context, kind taxonomy.Kind, name string) (taxonomy.Term, error) {
	name = strings.TrimSpace(name)
	slug := taxonomy.Slugify(name)
	if slug == "" {
		return taxonomy.Term{}, fmt.Errorf("term name %q has no usable slug", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, term := range r.terms {
		if term.Kind == kind && term.Slug == slug {
			return term, nil
		}
	}
	r.nextTermID++
	term := taxonomy.Term{ID: r.nextTermID, Kind: kind, Name: name, Slug: slug}
	r.terms[term.ID] = term
	return term, nil
}

func (r *TaxonomyRepository) SetRecordTerms(_ context.Context, recordID int64, kind taxonomy.Kind, termIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKindKey{recordID: recordID, kind: kind}
	if len(termIDs) == 0 {
		delete(r.recordTerms, key)
		return nil
	}
	r.recordTerms[key] = uniqueSortedIDs(termIDs)
	return nil
}

func (r *TaxonomyRepository) RecordTerms(_ context.Context, recordID int64, kind taxonomy.Kind) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.recordTerms[recordKindKey{recordID: recordID, kind: kind}]
	out := make([]int64, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func uniqueSortedIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, item := range ids {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
