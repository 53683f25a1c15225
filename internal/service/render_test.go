package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/silversky/partnersms-backend/internal/model"
	"github.com/silversky/partnersms-backend/internal/service"
)

func TestRenderSubstitutesAllVariables(t *testing.T) {
	p := model.Partner{
		FirstName: "Alice",
		LastName:  "Smith",
		Company:   "Acme Networks",
		Region:    "Northeast",
		TSD:       "Telarus",
	}

	got := service.Render("Hi {{first_name}} ({{name}}) of {{company}}, {{region}}/{{tsd}}", p)
	assert.Equal(t, "Hi Alice (Alice Smith) of Acme Networks, Northeast/Telarus", got)
}

func TestRenderExample(t *testing.T) {
	p := model.Partner{FirstName: "Sam", Company: "Acme"}
	got := service.Render("Hi {{first_name}}, re: {{company}} rollout", p)
	assert.Equal(t, "Hi Sam, re: Acme rollout", got)
}

func TestRenderUnsetFieldsAreEmpty(t *testing.T) {
	p := model.Partner{FirstName: "Sam"}
	assert.Equal(t, "co=", service.Render("co={{company}}", p))
	assert.Equal(t, "r= t=", service.Render("r={{region}} t={{tsd}}", p))
}

func TestRenderLeavesNoRecognizedTokens(t *testing.T) {
	partners := []model.Partner{
		{},
		{FirstName: "Sam"},
		{FirstName: "Dana", LastName: "Reyes", Company: "Summit", Region: "West", TSD: "Avant"},
	}
	template := "{{first_name}} {{name}} {{company}} {{region}} {{tsd}}"

	for _, p := range partners {
		got := service.Render(template, p)
		for _, v := range service.TemplateVariables() {
			assert.NotContains(t, got, "{{"+v+"}}")
		}
	}
}

func TestRenderUnrecognizedPassThrough(t *testing.T) {
	p := model.Partner{FirstName: "Sam", Company: "Acme"}
	assert.Equal(t, "{{unknown}}", service.Render("{{unknown}}", p))
	assert.Equal(t, "Hi Sam, {{discount_code}}!", service.Render("Hi {{first_name}}, {{discount_code}}!", p))
}

func TestRenderRepeatedPlaceholders(t *testing.T) {
	p := model.Partner{FirstName: "Sam"}
	got := service.Render("{{first_name}} {{first_name}} {{first_name}}", p)
	assert.Equal(t, "Sam Sam Sam", got)
}

func TestRenderNameUsesFullName(t *testing.T) {
	withLast := model.Partner{FirstName: "Sam", LastName: "Porter"}
	assert.Equal(t, "Sam Porter", service.Render("{{name}}", withLast))

	firstOnly := model.Partner{FirstName: "Sam"}
	assert.Equal(t, "Sam", service.Render("{{name}}", firstOnly))
}

func TestRenderIsPure(t *testing.T) {
	p := model.Partner{FirstName: "Sam", Company: "Acme"}
	template := "Hi {{first_name}} from {{company}}"
	first := service.Render(template, p)
	second := service.Render(template, p)
	assert.Equal(t, first, second)
	assert.True(t, strings.Contains(first, "Sam"))
}
