// Package assembler builds the persisted document model of one newspaper
// year from grouped page descriptors: it resolves the workflow template,
// creates or loads the year's process, ensures volume and issue nodes, and
// links every page into both trees.
package assembler

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/mrlokans/newspaper-importer/internal/config"
	"github.com/mrlokans/newspaper-importer/internal/database/processes"
	"github.com/mrlokans/newspaper-importer/internal/document"
	"github.com/mrlokans/newspaper-importer/internal/entities"
	"github.com/mrlokans/newspaper-importer/internal/grouping"
	"github.com/mrlokans/newspaper-importer/internal/metadata"
	"github.com/mrlokans/newspaper-importer/internal/page"
	"github.com/mrlokans/newspaper-importer/internal/progress"
)

// Structural node types of the newspaper document.
const (
	anchorType    = "Newspaper"
	volumeType    = "NewspaperVolume"
	issueType     = "NewspaperIssue"
	boundBookType = "BoundBook"
	pageType      = "page"
)

// Metadata field types written by the assembler itself, on top of the
// configured mappings.
const (
	titleFieldType          = "TitleDocMain"
	dateIssuedFieldType     = "DateIssued"
	physPageNumberFieldType = "physPageNumber"
	logPageNumberFieldType  = "logicalPageNumber"
	pathImagesFieldType     = "pathimagefiles"
)

const contentLocationPrefix = "file://"

// ProcessStore is the subset of the process repository the assembler needs.
type ProcessStore interface {
	GetByTitle(title string) (*entities.Process, error)
	Create(process *entities.Process) error
	SaveDocument(process *entities.Process, document []byte) error
}

// TemplateResolver turns a workflow template name into its loaded ruleset.
type TemplateResolver interface {
	Resolve(name string) (*document.Ruleset, error)
}

// Assembler builds year documents for one import set.
type Assembler struct {
	store     ProcessStore
	templates TemplateResolver
	state     *progress.State
	set       *config.Set
}

// New returns an assembler bound to an import set.
func New(store ProcessStore, templates TemplateResolver, state *progress.State, set *config.Set) *Assembler {
	return &Assembler{store: store, templates: templates, state: state, set: set}
}

// YearBuild is the in-progress document of one year group. It is obtained
// from BeginYear, fed one issue group at a time, and persisted once at the
// end. The issue registry lives on the document itself, so resuming an
// earlier year picks up exactly where that document left off.
type YearBuild struct {
	a       *Assembler
	ruleset *document.Ruleset
	process *entities.Process
	doc     *document.Document
	volume  document.NodeID
	year    string
}

// Process returns the process record backing this build.
func (b *YearBuild) Process() *entities.Process {
	return b.process
}

// BeginYear resolves the template and obtains the year's document: loading
// the existing process when one exists for the title, creating process and
// document skeleton otherwise. Any error here abandons the whole year.
func (a *Assembler) BeginYear(group grouping.YearGroup) (*YearBuild, error) {
	ruleset, err := a.templates.Resolve(a.set.Workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workflow %q: %w", a.set.Workflow, err)
	}

	title := ProcessTitle(a.set, group.Year)

	process, err := a.store.GetByTitle(title)
	switch {
	case err == nil:
		doc, derr := document.Decode(process.Document)
		if derr != nil {
			return nil, fmt.Errorf("process %s holds an unreadable document: %w", title, derr)
		}
		volume, verr := doc.Volume()
		if verr != nil {
			return nil, fmt.Errorf("process %s has no volume node: %w", title, verr)
		}
		log.Printf("Updating existing process %s", title)
		return &YearBuild{a: a, ruleset: ruleset, process: process, doc: doc, volume: volume, year: group.Year}, nil

	case errors.Is(err, processes.ErrNotFound):
		return a.createYear(ruleset, title, group)

	default:
		return nil, err
	}
}

// createYear builds the skeleton of a fresh document: anchor and volume in
// the logical tree, bound book in the physical tree, plus the configured
// anchor- and volume-level metadata resolved against the year's first page.
func (a *Assembler) createYear(ruleset *document.Ruleset, title string, group grouping.YearGroup) (*YearBuild, error) {
	doc := document.New()

	book, err := doc.CreatePhysicalRoot(ruleset, boundBookType)
	if err != nil {
		return nil, fmt.Errorf("failed to create physical root: %w", err)
	}
	if err := doc.AddMetadata(ruleset, book, pathImagesFieldType, "file:///"); err != nil {
		a.state.Error(fmt.Sprintf("Failed to set image path on %s: %s", title, err))
	}

	anchor, err := doc.CreateLogicalRoot(ruleset, anchorType)
	if err != nil {
		return nil, fmt.Errorf("failed to create logical root: %w", err)
	}
	volume, err := doc.AddLogicalChild(ruleset, anchor, volumeType)
	if err != nil {
		return nil, fmt.Errorf("failed to create volume node: %w", err)
	}

	firstPage := group.Pages[0]
	a.applyFieldSpecs(doc, ruleset, anchor, metadata.LevelAnchor, firstPage)
	a.applyFieldSpecs(doc, ruleset, volume, metadata.LevelVolume, firstPage)

	process := &entities.Process{
		Title:    title,
		Workflow: a.set.Workflow,
		Year:     group.Year,
	}
	if err := a.store.Create(process); err != nil {
		return nil, fmt.Errorf("failed to create a new process for year %s: %w", group.Year, err)
	}
	log.Printf("Created process %s", title)

	return &YearBuild{a: a, ruleset: ruleset, process: process, doc: doc, volume: volume, year: group.Year}, nil
}

// applyFieldSpecs attaches the configured metadata fields targeting one
// tree level. A field the ruleset rejects, or a person value that cannot
// be split, is reported and skipped; the remaining fields still apply.
func (a *Assembler) applyFieldSpecs(doc *document.Document, ruleset *document.Ruleset, node document.NodeID, level metadata.Level, p page.Descriptor) {
	for _, spec := range a.set.FieldSpecs() {
		if !spec.AppliesTo(level) {
			continue
		}
		value, err := metadata.Resolve(spec, p)
		if err != nil {
			a.state.Error(fmt.Sprintf("Failed to resolve metadata %s: %s", spec.Type, err))
			continue
		}

		if spec.Person {
			firstname, lastname, err := metadata.SplitPersonName(value)
			if err != nil {
				a.state.Error(fmt.Sprintf("Failed to add person %s: %s", spec.Type, err))
				continue
			}
			if err := doc.AddPerson(ruleset, node, spec.Type, firstname, lastname); err != nil {
				a.state.Error(fmt.Sprintf("Failed to add person %s: %s", spec.Type, err))
			}
			continue
		}

		if err := doc.AddMetadata(ruleset, node, spec.Type, value); err != nil {
			a.state.Error(fmt.Sprintf("Failed to add metadata %s: %s", spec.Type, err))
		}
	}
}

// AddIssue ensures the issue node for one issue group and links all of its
// pages. An issue key already present on the document reuses the existing
// node, so feeding the same folder twice never duplicates issues. Page and
// field level failures are reported and skipped; the returned error means
// the issue node itself could not be created.
func (b *YearBuild) AddIssue(group grouping.IssueGroup) error {
	if len(group.Pages) == 0 {
		return nil
	}
	first := group.Pages[0]

	issue, ok := b.doc.Issue(group.Key)
	if !ok {
		created, err := b.createIssue(group.Key, first)
		if err != nil {
			return err
		}
		issue = created
	}

	for _, p := range group.Pages {
		b.addPage(issue, p)
	}
	return nil
}

func (b *YearBuild) createIssue(key string, first page.Descriptor) (document.NodeID, error) {
	issue, err := b.doc.AddLogicalChild(b.ruleset, b.volume, issueType)
	if err != nil {
		return 0, fmt.Errorf("failed to create issue for %s: %w", first.Date, err)
	}

	title := first.IssueTitle(b.a.set.LanguageForDateFormat, b.issueTitlePrefix(first.Edition))
	if err := b.doc.AddMetadata(b.ruleset, issue, titleFieldType, title); err != nil {
		b.a.state.Error(fmt.Sprintf("Failed to set title of issue %s: %s", first.Date, err))
	}
	if err := b.doc.AddMetadata(b.ruleset, issue, dateIssuedFieldType, first.Date); err != nil {
		b.a.state.Error(fmt.Sprintf("Failed to set date of issue %s: %s", first.Date, err))
	}
	b.a.applyFieldSpecs(b.doc, b.ruleset, issue, metadata.LevelIssue, first)

	b.doc.RegisterIssue(key, issue)
	b.a.state.Log(fmt.Sprintf("Created issue %s", title))
	return issue, nil
}

// issueTitlePrefix picks the configured prefix for an edition, falling back
// to the plain prefix when the edition-specific one is blank.
func (b *YearBuild) issueTitlePrefix(edition page.Edition) string {
	switch edition {
	case page.EditionMorning:
		if b.a.set.IssueTitlePrefixMorning != "" {
			return b.a.set.IssueTitlePrefixMorning
		}
	case page.EditionEvening:
		if b.a.set.IssueTitlePrefixEvening != "" {
			return b.a.set.IssueTitlePrefixEvening
		}
	}
	return b.a.set.IssueTitlePrefix
}

// addPage creates the physical page node, numbers it, cross-links it to
// volume and issue, and attaches one content file per configured
// representation. A failure affects only this page.
func (b *YearBuild) addPage(issue document.NodeID, p page.Descriptor) {
	node, err := b.doc.AddPhysicalChild(b.ruleset, b.doc.PhysicalRoot, pageType)
	if err != nil {
		b.a.state.Error(fmt.Sprintf("Failed to add page %s: %s", p.FileName, err))
		return
	}

	// The physical number is the page's position under the book, which
	// after the append equals the child count.
	physical := b.doc.PhysicalPageCount()
	if err := b.doc.AddMetadata(b.ruleset, node, physPageNumberFieldType, strconv.Itoa(physical)); err != nil {
		b.a.state.Error(fmt.Sprintf("Failed to number page %s: %s", p.FileName, err))
	}

	logical := strings.TrimSpace(b.a.set.PageNumberPrefix + " " + p.PageNumberStripped())
	if err := b.doc.AddMetadata(b.ruleset, node, logPageNumberFieldType, logical); err != nil {
		b.a.state.Error(fmt.Sprintf("Failed to number page %s: %s", p.FileName, err))
	}

	if err := b.doc.AddReference(b.volume, node); err != nil {
		b.a.state.Error(fmt.Sprintf("Failed to link page %s to volume: %s", p.FileName, err))
	}
	if err := b.doc.AddReference(issue, node); err != nil {
		b.a.state.Error(fmt.Sprintf("Failed to link page %s to issue: %s", p.FileName, err))
	}

	for _, representation := range b.a.set.Representations {
		cf := document.ContentFile{
			MimeType: mimeType(representation),
			Location: contentLocationPrefix + replaceExtension(p.FileName, representation),
		}
		if err := b.doc.AddContentFile(node, cf); err != nil {
			b.a.state.Error(fmt.Sprintf("Failed to attach content file to %s: %s", p.FileName, err))
		}
	}
}

// Persist writes the document back to the process store. Called once per
// year group, after all of its issues were added.
func (b *YearBuild) Persist() error {
	data, err := b.doc.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode document of year %s: %w", b.year, err)
	}
	if err := b.a.store.SaveDocument(b.process, data); err != nil {
		return err
	}
	log.Printf("Persisted document of process %s", b.process.Title)
	return nil
}

// ProcessTitle is the unique title of a year's process within a set.
func ProcessTitle(set *config.Set, year string) string {
	return set.ProcessTitle + "_" + year
}

// mimeType maps a representation name to its content type. Unknown
// representations are assumed to be image formats.
func mimeType(representation string) string {
	switch strings.ToLower(representation) {
	case "tif", "tiff":
		return "image/tiff"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "pdf":
		return "application/pdf"
	default:
		return "image/" + strings.ToLower(representation)
	}
}

// replaceExtension swaps the file extension for the representation's one.
func replaceExtension(name, ext string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return name + "." + ext
}
