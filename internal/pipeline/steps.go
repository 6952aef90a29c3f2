package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/nao1215/wikivault/internal/inflect"
	"github.com/nao1215/wikivault/internal/model"
	"github.com/nao1215/wikivault/internal/wikitext"
)

// Settings carries the knobs shared by the conversion steps.
type Settings struct {
	// ImageDir is the vault-relative directory image references point at.
	ImageDir string

	// KnownInfoboxes lists field-bearing template names treated as
	// infoboxes even without the "Infobox" prefix.
	KnownInfoboxes []string

	// Singularizer converts plural infobox type names to singular tags.
	// Defaults to English rules when nil.
	Singularizer inflect.Singularizer
}

// matcher returns the infobox template matcher for these settings.
func (s Settings) matcher() func(string) bool {
	known := s.KnownInfoboxes
	return func(name string) bool {
		return wikitext.IsInfoboxName(name, known)
	}
}

// DefaultPipeline builds the standard conversion pipeline:
// normalize, infobox extraction, template policy, category stripping,
// body formatting, document rendering.
func DefaultPipeline(settings Settings, opts ...Option) *Pipeline {
	if settings.Singularizer == nil {
		settings.Singularizer = inflect.English{}
	}

	p := New(opts...)
	p.AddSteps(
		&NormalizeStep{},
		&InfoboxStep{settings: settings},
		&TemplateStep{settings: settings},
		&CategoryStep{},
		&BodyStep{settings: settings},
		&RenderStep{},
	)
	return p
}

// NormalizeStep prepares the raw wiki-text: line endings and HTML
// entities are normalized before any scanner runs.
type NormalizeStep struct{}

// Name returns the step name.
func (s *NormalizeStep) Name() string { return "normalize" }

// Do executes the normalize step.
func (s *NormalizeStep) Do(_ context.Context, result *model.PageResult) error {
	result.Body = wikitext.Normalize(result.Body)
	return nil
}

// InfoboxStep extracts the first infobox-style template from the page,
// records its fields and image, and adds the type-derived tag.
type InfoboxStep struct {
	settings Settings
}

// Name returns the step name.
func (s *InfoboxStep) Name() string { return "infobox" }

// Do executes the infobox extraction step.
func (s *InfoboxStep) Do(_ context.Context, result *model.PageResult) error {
	body, box, found := wikitext.ExtractInfobox(result.Body, s.settings.ImageDir, s.settings.matcher())
	if !found {
		return nil
	}

	result.Body = body
	result.Infobox = box
	if tag := box.InferredTag(s.settings.Singularizer.Singular); tag != "" {
		result.Tags.Add(tag)
	}
	if box.Image != nil {
		result.Images = append(result.Images, *box.Image)
	}
	result.Images = append(result.Images, box.ValueImages...)
	for _, l := range box.Links {
		result.LinkedTitles = append(result.LinkedTitles, l.Target)
	}
	return nil
}

// TemplateStep applies the unrecognized-template policy: any remaining
// double-brace template that is not infobox-like is dropped from the
// output with a warning. Later infobox-like templates stay inline; only
// the first one became structured metadata.
type TemplateStep struct {
	settings Settings
}

// Name returns the step name.
func (s *TemplateStep) Name() string { return "templates" }

// Do executes the template policy step.
func (s *TemplateStep) Do(_ context.Context, result *model.PageResult) error {
	body, dropped := wikitext.DropTemplates(result.Body, s.settings.matcher())
	result.Body = body
	for _, name := range dropped {
		result.Warn(model.WarnUnknownTemplate, name)
	}
	return nil
}

// CategoryStep strips category declarations from the body and adds the
// normalized names to the page's tag set.
type CategoryStep struct{}

// Name returns the step name.
func (s *CategoryStep) Name() string { return "categories" }

// Do executes the category step.
func (s *CategoryStep) Do(_ context.Context, result *model.PageResult) error {
	body, names := wikitext.ExtractCategories(result.Body)
	result.Body = body
	for _, name := range names {
		result.Tags.Add(name)
	}
	return nil
}

// BodyStep converts the remaining wiki-text body to Markdown: reference
// tags are stripped, links resolved, inline markup converted, and
// hard-wrapped paragraphs unwrapped.
type BodyStep struct {
	settings Settings
}

// Name returns the step name.
func (s *BodyStep) Name() string { return "body" }

// Do executes the body formatting step.
func (s *BodyStep) Do(_ context.Context, result *model.PageResult) error {
	body, removed := wikitext.StripRefs(result.Body)
	if removed > 0 {
		result.Warn(model.WarnRefStripped, "<ref> x"+strconv.Itoa(removed))
	}

	body, links, images := wikitext.ResolveLinks(body, s.settings.ImageDir)
	for _, l := range links {
		result.LinkedTitles = append(result.LinkedTitles, l.Target)
	}
	result.Images = append(result.Images, images...)

	body = wikitext.FormatInline(body)
	result.Body = strings.TrimSpace(wikitext.UnwrapParagraphs(body))
	return nil
}

// RenderStep assembles the final document from the accumulated state.
// Output ordering is deterministic: the frontmatter carries the title,
// the sorted tag set, and the infobox fields in source order.
type RenderStep struct{}

// Name returns the step name.
func (s *RenderStep) Name() string { return "render" }

// Do executes the render step.
func (s *RenderStep) Do(_ context.Context, result *model.PageResult) error {
	result.Document = &model.Document{
		Title:   result.Page.Title,
		Tags:    result.Tags.Sorted(),
		Infobox: result.Infobox,
		Body:    result.Body,
	}
	return nil
}

// PointerDocument builds the single-line pointer document emitted for a
// redirect page when redirects are not skipped. The full pipeline never
// runs for redirects.
func PointerDocument(page *model.Page) *model.Document {
	return &model.Document{
		Title:   page.Title,
		Body:    "Redirects to [[" + page.RedirectTarget + "]].",
		Pointer: true,
	}
}
