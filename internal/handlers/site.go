package handlers

import (
	"context"

	"github.com/trioguard/trioguard-web/internal/config"
	"github.com/trioguard/trioguard-web/internal/site"
)

// SiteHandler serves the static marketing content: features, FAQ, changelog,
// and the invite link. No auth, no storage.
type SiteHandler struct {
	cfg *config.Config
}

func NewSiteHandler(cfg *config.Config) *SiteHandler {
	return &SiteHandler{cfg: cfg}
}

type FeaturesOutput struct {
	Body []site.Feature
}

func (h *SiteHandler) HandleFeatures(ctx context.Context, input *struct{}) (*FeaturesOutput, error) {
	return &FeaturesOutput{Body: site.Features()}, nil
}

type FAQOutput struct {
	Body []site.FAQEntry
}

func (h *SiteHandler) HandleFAQ(ctx context.Context, input *struct{}) (*FAQOutput, error) {
	return &FAQOutput{Body: site.FAQ()}, nil
}

type ChangelogOutput struct {
	Body []site.ChangelogRelease
}

func (h *SiteHandler) HandleChangelog(ctx context.Context, input *struct{}) (*ChangelogOutput, error) {
	return &ChangelogOutput{Body: site.Changelog()}, nil
}

type HowItWorksOutput struct {
	Body []site.Step
}

func (h *SiteHandler) HandleHowItWorks(ctx context.Context, input *struct{}) (*HowItWorksOutput, error) {
	return &HowItWorksOutput{Body: site.HowItWorks()}, nil
}

type InviteOutput struct {
	Body struct {
		URL string `json:"url"`
	}
}

func (h *SiteHandler) HandleInvite(ctx context.Context, input *struct{}) (*InviteOutput, error) {
	out := &InviteOutput{}
	out.Body.URL = h.cfg.InviteURL()
	return out, nil
}
