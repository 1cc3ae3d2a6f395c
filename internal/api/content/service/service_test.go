package contentsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	basesvc "zeniverse_api/internal/api/base/service"
	"zeniverse_api/internal/api/base/service/storetest"
	contentdto "zeniverse_api/internal/api/content/dto"
	models "zeniverse_api/internal/api/content/models"
	"zeniverse_api/internal/common"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestContentRendersMarkdown(t *testing.T) {
	ctx := context.Background()
	svc := NewContentService(storetest.New[models.Content]("slug"), nil)

	in := &contentdto.ContentCreateInput{Title: "Privacy Policy", Type: models.ContentTypePrivacyPolicy, Body: "# Data\n\nWe keep **little**."}
	created, err := svc.Create(ctx, in.ToModel(), nil)
	require.NoError(t, err)
	assert.Equal(t, "privacy-policy", created.Slug)
	assert.Contains(t, created.BodyHTML, `<h1 id="data">Data</h1>`)
	assert.Contains(t, created.BodyHTML, "<strong>little</strong>")

	updated, err := svc.Update(ctx, created.ID, &contentdto.ContentUpdateInput{Body: strPtr("plain")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>plain</p>\n", updated.BodyHTML)
	assert.Equal(t, "privacy-policy", updated.Slug, "slug stays while the title does")
}

func TestContentOnePublishedPerType(t *testing.T) {
	ctx := context.Background()
	store := storetest.New[models.Content]("slug")
	svc := NewContentService(store, nil)

	faq := &contentdto.ContentCreateInput{Title: "FAQ", Type: models.ContentTypeFAQ, IsPublished: true}
	_, err := svc.Create(ctx, faq.ToModel(), nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, faq.ToModel(), nil)
	assert.ErrorIs(t, err, common.ErrPublishConflict)
	assert.Equal(t, 1, store.Len())

	terms := &contentdto.ContentCreateInput{Title: "Terms", Type: models.ContentTypeTermsOfService, IsPublished: true}
	_, err = svc.Create(ctx, terms.ToModel(), nil)
	require.NoError(t, err, "another type has its own slot")

	active, err := svc.GetPublished(ctx, models.ContentTypeFAQ)
	require.NoError(t, err)
	assert.Equal(t, "FAQ", active.Title)

	_, err = svc.GetPublished(ctx, models.ContentTypeAboutUs)
	assert.ErrorIs(t, err, common.ErrNotFound)

	bad := &contentdto.ContentCreateInput{Title: "Blog", Type: "blog"}
	_, err = svc.Create(ctx, bad.ToModel(), nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestContentManagementSearchesSections(t *testing.T) {
	ctx := context.Background()
	svc := NewContentManagementService(storetest.New[models.ContentManagement]("slug"), nil)

	home := &contentdto.ContentManagementCreateInput{
		Title: "Home",
		Type:  models.PageHome,
		Sections: []models.Section{
			{Title: "Hero", Content: "Building the alpha generation", Order: 0},
		},
	}
	_, err := svc.Create(ctx, home.ToModel(), nil)
	require.NoError(t, err)

	about := &contentdto.ContentManagementCreateInput{Title: "About", Type: models.PageAbout, Subtitle: "Who we are"}
	created, err := svc.Create(ctx, about.ToModel(), nil)
	require.NoError(t, err)

	page, err := svc.List(ctx, basesvc.ListQuery{Search: "alpha"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Home", page.Items[0].Title)

	page, err = svc.List(ctx, basesvc.ListQuery{Filters: map[string]string{"type": models.PageAbout}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	sections := []models.Section{{Title: "Team", Content: "alpha team", Order: 1}}
	updated, err := svc.Update(ctx, created.ID, &contentdto.ContentManagementUpdateInput{Sections: &sections}, nil)
	require.NoError(t, err)
	require.Len(t, updated.Sections, 1)

	page, err = svc.List(ctx, basesvc.ListQuery{Search: "ALPHA"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	empty := []models.Section{}
	updated, err = svc.Update(ctx, created.ID, &contentdto.ContentManagementUpdateInput{Sections: &empty}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Sections)

	bad := []models.Section{{Title: "x", ImageURL: "not a url"}}
	_, err = svc.Update(ctx, created.ID, &contentdto.ContentManagementUpdateInput{Sections: &bad}, nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestContactSocialSingleSlot(t *testing.T) {
	ctx := context.Background()
	svc := NewContactSocialService(storetest.New[models.ContactSocial]("slug"), nil)

	first := &contentdto.ContactSocialCreateInput{
		Title:          "Contact",
		ContactDetails: []models.ContactDetail{{Label: "Office", Kind: "email", Value: "hello@example.com", IsPrimary: true}},
		SocialLinks:    []models.SocialLink{{Platform: "linkedin", URL: "https://linkedin.com/company/example"}},
		IsPublished:    true,
	}
	published, err := svc.Create(ctx, first.ToModel(), nil)
	require.NoError(t, err)

	draft := &contentdto.ContactSocialCreateInput{Title: "Contact v2"}
	next, err := svc.Create(ctx, draft.ToModel(), nil)
	require.NoError(t, err)

	_, _, err = svc.TogglePublish(ctx, next.ID, nil, nil)
	assert.ErrorIs(t, err, common.ErrPublishConflict)

	_, err = svc.Update(ctx, next.ID, &contentdto.ContactSocialUpdateInput{IsPublished: boolPtr(true)}, nil)
	assert.ErrorIs(t, err, common.ErrPublishConflict)

	_, msg, err := svc.TogglePublish(ctx, published.ID, boolPtr(false), nil)
	require.NoError(t, err)
	assert.Equal(t, common.MsgUnpublished, msg)

	doc, msg, err := svc.TogglePublish(ctx, next.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, common.MsgPublished, msg)
	require.NotNil(t, doc.PublishedAt)

	active, err := svc.GetPublished(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, next.ID, active.ID)

	bad := &contentdto.ContactSocialCreateInput{
		Title:       "Broken",
		SocialLinks: []models.SocialLink{{Platform: "x", URL: "nope"}},
	}
	_, err = svc.Create(ctx, bad.ToModel(), nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}
