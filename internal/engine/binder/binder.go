// Package binder resolves every reference in a parsed program, infers define
// result types, and emits the dependency graph. All static-analysis failures
// (reference, cycle, type, unknown task) surface here, before any dispatch.
package binder

import (
	"strings"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.phenora.dev/phenoql/internal/engine/parser"
	"go.trai.ch/zerr"
)

// Document set builder calls understood by the binder. These are compiled
// into filter criteria at bind time, not dispatched to the registry.
const (
	builderReportTagList = "createReportTagList"
	builderDocumentSet   = "createDocumentSet"
)

type symbolKind int

const (
	symTermSet symbolKind = iota
	symDocumentSet
	symCohort
	symDefine
)

func (k symbolKind) String() string {
	switch k {
	case symTermSet:
		return "termset"
	case symDocumentSet:
		return "documentset"
	case symCohort:
		return "cohort"
	default:
		return "define"
	}
}

// Bind validates a parsed program against the task catalog and produces the
// immutable library plus its dependency graph.
func Bind(prog *parser.Program, catalog ports.TaskRegistry) (*domain.Library, *domain.Graph, error) {
	b := &binder{
		catalog: catalog,
		lib:     &domain.Library{Context: domain.ContextPatient},
		symbols: make(map[string]symbolKind),
	}
	if err := b.collect(prog); err != nil {
		return nil, nil, err
	}
	graph, err := b.buildGraph()
	if err != nil {
		return nil, nil, err
	}
	return b.lib, graph, nil
}

type binder struct {
	catalog ports.TaskRegistry
	lib     *domain.Library
	symbols map[string]symbolKind
}

func (b *binder) declare(name string, kind symbolKind, pos parser.Position) error {
	if prev, exists := b.symbols[name]; exists {
		return zerr.With(
			zerr.With(
				zerr.With(
					domain.Annotate(domain.ErrDuplicateDeclaration, "name", name),
					"previous", prev.String(),
				),
				"line", pos.Line,
			),
			"column", pos.Column,
		)
	}
	b.symbols[name] = kind
	return nil
}

// collect processes statements in script order. A reference only resolves
// to an entity declared earlier, so forward references fail here; the graph
// cycle check is a backstop, not the primary guard.
//
//nolint:cyclop // statement dispatch
func (b *binder) collect(prog *parser.Program) error {
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case parser.PhenotypeStmt:
			b.lib.Name = s.Name
			if s.Version != "" {
				b.lib.Version = s.Version
			}
		case parser.VersionStmt:
			b.lib.Version = s.Version
		case parser.DescriptionStmt:
			b.lib.Description = s.Text
		case parser.DataModelStmt:
			b.lib.DataModel = s.Name
			b.lib.DataModelVersion = s.Version
		case parser.IncludeStmt:
			b.lib.Includes = append(b.lib.Includes, domain.Include{
				Path:    s.Path,
				Version: s.Version,
				Alias:   s.Alias,
			})
		case parser.CodeSystemStmt:
			b.lib.CodeSystems = append(b.lib.CodeSystems, domain.CodeSystem{
				Name: s.Name,
				URI:  s.URI,
			})
		case parser.TermSetStmt:
			if err := b.declare(s.Name, symTermSet, s.Pos()); err != nil {
				return err
			}
			b.lib.TermSets = append(b.lib.TermSets, domain.TermSet{
				Name:  s.Name,
				Terms: s.Terms,
			})
		case parser.DocumentSetStmt:
			if err := b.declare(s.Name, symDocumentSet, s.Pos()); err != nil {
				return err
			}
			criteria, err := b.compileCriteria(s.Call)
			if err != nil {
				return err
			}
			b.lib.DocumentSets = append(b.lib.DocumentSets, domain.DocumentSet{
				Name:     s.Name,
				Criteria: criteria,
			})
		case parser.CohortStmt:
			if err := b.declare(s.Name, symCohort, s.Pos()); err != nil {
				return err
			}
			ref, err := b.cohortRef(s)
			if err != nil {
				return err
			}
			b.lib.Cohorts = append(b.lib.Cohorts, domain.Cohort{Name: s.Name, Ref: ref})
		case parser.ContextStmt:
			ctx, err := domain.ParseContext(s.Name)
			if err != nil {
				return zerr.With(zerr.With(err, "line", s.Pos().Line), "column", s.Pos().Column)
			}
			b.lib.Context = ctx
		case parser.DefineStmt:
			if err := b.bindDefine(s); err != nil {
				return err
			}
		case parser.LimitStmt:
			b.lib.Limit = s.N
		case parser.DebugStmt:
			b.lib.Debug = true
		}
	}
	return nil
}

// compileCriteria maps a document set builder call to filter criteria.
func (b *binder) compileCriteria(call *parser.Call) (domain.DocumentCriteria, error) {
	var criteria domain.DocumentCriteria
	if err := b.checkAlias(call); err != nil {
		return criteria, err
	}

	switch taskName(call.Name) {
	case builderReportTagList:
		if len(call.Positional) != 1 || call.Positional[0].Kind != parser.ArgList {
			return criteria, b.locErr(domain.ErrTypeMismatch, call.Position,
				"expected", builderReportTagList+" takes one list of report type strings")
		}
		types, err := stringList(call.Positional[0])
		if err != nil {
			return criteria, b.locErr(domain.ErrTypeMismatch, call.Position,
				"expected", "report type strings")
		}
		criteria.ReportTypes = types
		return criteria, nil

	case builderDocumentSet:
		for _, key := range call.ObjectKeys {
			arg := call.Object[key]
			values, err := stringList(arg)
			if err != nil {
				return criteria, b.locErr(domain.ErrTypeMismatch, arg.Position,
					"expected", "a list of strings for '"+key+"'")
			}
			switch key {
			case "report_types":
				criteria.ReportTypes = values
			case "sources":
				criteria.Sources = values
			default:
				return criteria, b.locErr(domain.ErrTypeMismatch, arg.Position,
					"expected", "'report_types' or 'sources', got '"+key+"'")
			}
		}
		return criteria, nil

	default:
		return criteria, b.locErr(domain.ErrUnknownTask, call.Position, "task", call.Name)
	}
}

func (b *binder) cohortRef(s parser.CohortStmt) (string, error) {
	if s.Call == nil {
		return s.Ref, nil
	}
	if err := b.checkAlias(s.Call); err != nil {
		return "", err
	}
	if len(s.Call.Positional) != 1 || s.Call.Positional[0].Kind != parser.ArgLiteral {
		return "", b.locErr(domain.ErrTypeMismatch, s.Call.Position,
			"expected", "one cohort reference argument")
	}
	lit := s.Call.Positional[0].Literal
	switch lit.Kind {
	case domain.KindString:
		return lit.Str, nil
	case domain.KindNumber:
		return lit.Canonical(), nil
	default:
		return "", b.locErr(domain.ErrTypeMismatch, s.Call.Position,
			"expected", "a string or numeric cohort reference")
	}
}

// checkAlias verifies the call's alias segment against the declared includes.
// When no include statement is present the alias is left to registry lookup.
func (b *binder) checkAlias(call *parser.Call) error {
	if len(b.lib.Includes) == 0 {
		return nil
	}
	alias, _, found := strings.Cut(call.Name, ".")
	if !found {
		return nil
	}
	for _, inc := range b.lib.Includes {
		if inc.Alias == alias {
			return nil
		}
	}
	return b.locErr(domain.ErrUnresolvedReference, call.Position, "name", alias)
}

// bindDefine binds the define's body against the symbols declared so far,
// then declares its name. A define cannot reference itself or anything
// declared later.
func (b *binder) bindDefine(s parser.DefineStmt) error {
	def := &domain.Define{Name: s.Name, Final: s.Final}
	if s.Call != nil {
		def.Kind = domain.DefineTask
		def.ResultKind = domain.ResultRecord
		inv, deps, err := b.bindTask(s)
		if err != nil {
			return err
		}
		def.Task = inv
		def.DependsOn = deps
	} else {
		def.Kind = domain.DefineExpression
		def.ResultKind = domain.ResultBool
		deps, err := b.bindExpr(s.Name, s.Where)
		if err != nil {
			return err
		}
		def.Expr = s.Where
		def.DependsOn = deps
	}
	if err := b.declare(s.Name, symDefine, s.Pos()); err != nil {
		return err
	}
	b.lib.Defines = append(b.lib.Defines, def)
	return nil
}

//nolint:cyclop // parameter classification
func (b *binder) bindTask(s parser.DefineStmt) (*domain.TaskInvocation, []string, error) {
	call := s.Call
	if err := b.checkAlias(call); err != nil {
		return nil, nil, err
	}

	name := taskName(call.Name)
	if _, ok := b.catalog.Lookup(name); !ok {
		return nil, nil, zerr.With(
			b.locErr(domain.ErrUnknownTask, call.Position, "task", call.Name),
			"known", strings.Join(b.catalog.Names(), ", "),
		)
	}

	inv := &domain.TaskInvocation{
		Task:   name,
		Params: make(map[string]domain.Param),
	}
	var deps []string
	seen := make(map[string]bool)

	addRef := func(ref string, pos parser.Position) error {
		kind, ok := b.symbols[ref]
		if !ok {
			return b.locErr(domain.ErrUnresolvedReference, pos, "name", ref)
		}
		switch kind {
		case symTermSet:
			inv.TermSets = append(inv.TermSets, ref)
		case symDocumentSet:
			inv.DocumentSets = append(inv.DocumentSets, ref)
		case symCohort:
			inv.Cohorts = append(inv.Cohorts, ref)
		case symDefine:
			inv.Defines = append(inv.Defines, ref)
		}
		if !seen[ref] {
			seen[ref] = true
			deps = append(deps, ref)
		}
		return nil
	}

	for _, key := range call.ObjectKeys {
		arg := call.Object[key]
		param, err := b.bindParam(arg, addRef)
		if err != nil {
			return nil, nil, err
		}
		inv.Params[key] = param
	}
	if len(call.ObjectKeys) == 0 && len(call.Positional) > 0 {
		return nil, nil, b.locErr(domain.ErrTypeMismatch, call.Position,
			"expected", "task parameters as an object literal")
	}
	return inv, deps, nil
}

func (b *binder) bindParam(arg parser.Arg, addRef func(string, parser.Position) error) (domain.Param, error) {
	switch arg.Kind {
	case parser.ArgLiteral:
		return domain.LiteralParam(arg.Literal), nil
	case parser.ArgIdent:
		if err := addRef(arg.Ident, arg.Position); err != nil {
			return domain.Param{}, err
		}
		return domain.RefParam(arg.Ident), nil
	default:
		items := make([]domain.Param, 0, len(arg.List))
		for _, item := range arg.List {
			p, err := b.bindParam(item, addRef)
			if err != nil {
				return domain.Param{}, err
			}
			items = append(items, p)
		}
		return domain.ListParam(items...), nil
	}
}

// exprType is the statically inferred shape of an expression node.
type exprType int

const (
	typeBool exprType = iota
	typeNumber
	typeString
	typeRecord
	// typeDynamic covers record member access, whose field types are not
	// known until execution.
	typeDynamic
)

func (t exprType) String() string {
	switch t {
	case typeBool:
		return "boolean"
	case typeNumber:
		return "number"
	case typeString:
		return "string"
	case typeRecord:
		return "record"
	default:
		return "dynamic"
	}
}

func (b *binder) bindExpr(define string, expr domain.Expr) ([]string, error) {
	var deps []string
	seen := make(map[string]bool)
	_, err := b.typeOf(define, expr, &deps, seen)
	return deps, err
}

//nolint:cyclop // operator typing rules
func (b *binder) typeOf(define string, expr domain.Expr, deps *[]string, seen map[string]bool) (exprType, error) {
	switch e := expr.(type) {
	case *domain.LiteralExpr:
		switch e.Value.Kind {
		case domain.KindBool:
			return typeBool, nil
		case domain.KindNumber:
			return typeNumber, nil
		default:
			return typeString, nil
		}

	case *domain.RefExpr:
		kind, ok := b.symbols[e.Define]
		if !ok {
			return typeBool, b.locErr(domain.ErrUnresolvedReference,
				parser.Position{Line: e.Line, Column: e.Column}, "name", e.Define)
		}
		if kind != symDefine {
			return typeBool, b.locErr(domain.ErrTypeMismatch,
				parser.Position{Line: e.Line, Column: e.Column},
				"expected", "a define, '"+e.Define+"' is a "+kind.String())
		}
		if !seen[e.Define] {
			seen[e.Define] = true
			*deps = append(*deps, e.Define)
		}
		if e.Member != "" {
			return typeDynamic, nil
		}
		return typeRecord, nil

	case *domain.NotExpr:
		t, err := b.typeOf(define, e.Operand, deps, seen)
		if err != nil {
			return typeBool, err
		}
		if t == typeNumber || t == typeString {
			return typeBool, b.typeErr(define, "NOT", t)
		}
		return typeBool, nil

	case *domain.BinaryExpr:
		lt, err := b.typeOf(define, e.Left, deps, seen)
		if err != nil {
			return typeBool, err
		}
		rt, err := b.typeOf(define, e.Right, deps, seen)
		if err != nil {
			return typeBool, err
		}

		switch {
		case e.Op.IsLogical():
			if lt == typeNumber || lt == typeString {
				return typeBool, b.typeErr(define, e.Op.String(), lt)
			}
			if rt == typeNumber || rt == typeString {
				return typeBool, b.typeErr(define, e.Op.String(), rt)
			}
		case e.Op.IsOrdering():
			// Ordering needs numeric or orderable operands; record member
			// access stays dynamic until execution.
			if lt == typeBool || lt == typeString || lt == typeRecord {
				return typeBool, b.typeErr(define, e.Op.String(), lt)
			}
			if rt == typeBool || rt == typeString || rt == typeRecord {
				return typeBool, b.typeErr(define, e.Op.String(), rt)
			}
		default:
			// Equality: both sides statically known and different is a
			// mismatch; records never compare.
			if lt == typeRecord || rt == typeRecord {
				return typeBool, b.typeErr(define, e.Op.String(), typeRecord)
			}
			if lt != typeDynamic && rt != typeDynamic && lt != rt {
				return typeBool, b.typeErr(define, e.Op.String(), rt)
			}
		}
		return typeBool, nil

	default:
		return typeBool, domain.Annotate(domain.ErrTypeMismatch, "define", define)
	}
}

func (b *binder) typeErr(define, op string, got exprType) error {
	return zerr.With(
		zerr.With(
			domain.Annotate(domain.ErrTypeMismatch, "define", define),
			"operator", op,
		),
		"operand", got.String(),
	)
}

func (b *binder) locErr(sentinel error, pos parser.Position, key, value string) error {
	return zerr.With(
		zerr.With(
			domain.Annotate(sentinel, key, value),
			"line", pos.Line,
		),
		"column", pos.Column,
	)
}

func (b *binder) buildGraph() (*domain.Graph, error) {
	g := domain.NewGraph()
	for _, ts := range b.lib.TermSets {
		if err := g.AddNode(&domain.GraphNode{Name: ts.Name, Kind: domain.NodeTermSet}); err != nil {
			return nil, err
		}
	}
	for _, ds := range b.lib.DocumentSets {
		if err := g.AddNode(&domain.GraphNode{Name: ds.Name, Kind: domain.NodeDocumentSet}); err != nil {
			return nil, err
		}
	}
	for _, c := range b.lib.Cohorts {
		if err := g.AddNode(&domain.GraphNode{Name: c.Name, Kind: domain.NodeCohort}); err != nil {
			return nil, err
		}
	}
	for _, d := range b.lib.Defines {
		node := &domain.GraphNode{
			Name:         d.Name,
			Kind:         domain.NodeDefine,
			Dependencies: d.DependsOn,
		}
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// stringList flattens a list argument of string literals.
func stringList(arg parser.Arg) ([]string, error) {
	if arg.Kind != parser.ArgList {
		return nil, domain.ErrTypeMismatch
	}
	out := make([]string, 0, len(arg.List))
	for _, item := range arg.List {
		if item.Kind != parser.ArgLiteral || item.Literal.Kind != domain.KindString {
			return nil, domain.ErrTypeMismatch
		}
		out = append(out, item.Literal.Str)
	}
	return out, nil
}

// taskName strips the catalog alias from a dotted invocation name.
func taskName(dotted string) string {
	if idx := strings.LastIndex(dotted, "."); idx >= 0 {
		return dotted[idx+1:]
	}
	return dotted
}
