// internal/testsuite/suite.go

// Package testsuite drives test injection over a Postman collection: contract
// tests derived from the API document, content tests, request overwrites,
// variable assignments, request variations and multi step integration
// scenarios. Rules run in declaration order and every expected absence (no
// rules, no matching operation, no declared responses) is a silent skip so
// one miss never stops the rest of the run.
package testsuite

import (
	"postgen/internal/collection"
	"postgen/internal/common/config"
	"postgen/internal/common/logger"
	"postgen/internal/oas"
	"postgen/pkg/postman"
)

// Stats counts what a run injected, for the end of run summary.
type Stats struct {
	RequestsProcessed  int
	ContractAssertions int
	ContentAssertions  int
	ExtendBlocks       int
	VariablesAssigned  int
	OverwritesApplied  int
	Variations         int
	Scenarios          int
}

// Suite owns one generation run over a single collection.
type Suite struct {
	cfg   *config.GenerateConfig
	doc   *oas.Document
	col   *postman.Collection
	index *collection.Index
	log   logger.Logger
	stats Stats
}

// New creates a suite for one document/collection pair. The configuration
// passed here is the instance default; Execute may override the tests part.
func New(cfg *config.GenerateConfig, doc *oas.Document, col *postman.Collection, log logger.Logger) *Suite {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Suite{
		cfg:   cfg,
		doc:   doc,
		col:   col,
		index: collection.NewIndex(doc, col, log),
		log:   log,
	}
}

// Execute runs every configured rule list in declaration order and returns
// the run counters. A non nil override replaces the instance test rules for
// this call; the effective rules are resolved once here and never consulted
// again mid run.
func (s *Suite) Execute(override *config.TestsConfig) *Stats {
	tests := &s.cfg.Tests
	if override != nil {
		tests = override
	}

	for _, rule := range tests.ContractTests {
		for _, rec := range s.ResolveOperations(&rule.Target) {
			s.InjectContractTests(rec, rule, "")
		}
	}

	for _, rule := range tests.ContentTests {
		for _, rec := range s.ResolveOperations(&rule.Target) {
			s.InjectContentTests(rec, rule)
		}
	}

	for _, rule := range s.cfg.Overwrites {
		for _, rec := range s.ResolveOperations(&rule.Target) {
			s.ApplyMutations(rec, &rule.Mutations)
		}
	}

	for _, rule := range s.cfg.AssignVariables {
		for _, rec := range s.ResolveOperations(&rule.Target) {
			s.AssignVariables(rec, rule.CollectionVariables)
		}
	}

	for _, rule := range tests.ExtendTests {
		for _, rec := range s.ResolveOperations(&rule.Target) {
			s.ExtendTests(rec, rule.Tests, rule.Overwrite)
		}
	}

	if len(tests.VariationTests) > 0 {
		writer := NewVariationWriter(s)
		for _, rule := range tests.VariationTests {
			records := s.ResolveOperations(&rule.Target)
			if len(records) == 0 {
				s.log.Debug("variation rule matches no operation", map[string]interface{}{
					"openapi_operation":    rule.OpenAPIOperation,
					"openapi_operation_id": rule.OpenAPIOperationID,
				})
				continue
			}
			for _, rec := range records {
				for _, variation := range rule.Variations {
					writer.Add(rec, variation)
				}
			}
		}
		writer.MergeToCollection(s.col)
	}

	if len(tests.IntegrationTests) > 0 {
		writer := NewIntegrationWriter(s)
		for _, rule := range tests.IntegrationTests {
			writer.Add(rule)
		}
		writer.MergeToCollection(s.col)
	}

	s.ApplyGlobals()

	s.stats.RequestsProcessed = len(s.index.Records())
	return &s.stats
}

// ResolveOperations returns the request records a rule target selects, in
// collection declaration order: by path reference pattern first, else by a
// single operation id, else by an id list. A target selecting nothing yields
// an empty slice, never an error. Records on the rule level exclusion list
// are filtered out.
func (s *Suite) ResolveOperations(target *config.Target) []*collection.Record {
	var records []*collection.Record
	switch {
	case target.OpenAPIOperation != "":
		records = s.index.ByRef(target.OpenAPIOperation)
	case target.OpenAPIOperationID != "":
		if rec, ok := s.index.ByID(target.OpenAPIOperationID); ok {
			records = []*collection.Record{rec}
		}
	case len(target.OpenAPIOperationIDs) > 0:
		records = s.index.ByIDs(target.OpenAPIOperationIDs)
	}

	if len(records) == 0 {
		s.log.Debug("rule target resolves to no request records", map[string]interface{}{
			"openapi_operation":    target.OpenAPIOperation,
			"openapi_operation_id": target.OpenAPIOperationID,
		})
		return nil
	}
	if len(target.ExcludeForOperations) == 0 {
		return records
	}

	out := make([]*collection.Record, 0, len(records))
	for _, rec := range records {
		if excluded(target.ExcludeForOperations, rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// excluded reports whether a record's id or path reference appears in an
// exclusion list. Path reference entries support the usual wildcard forms.
func excluded(list []string, rec *collection.Record) bool {
	for _, entry := range list {
		if entry == rec.ID() || oas.MatchRef(entry, rec.PathRef()) {
			return true
		}
	}
	return false
}
