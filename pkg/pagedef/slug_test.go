package pagedef

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Solicitação de Acesso":      "solicitacao-de-acesso",
		"  Central de Ajuda!  ":      "central-de-ajuda",
		"Ação -- Rápida / TI":        "acao-rapida-ti",
		"Über Straße":                "uber-stra-e",
		"---":                        "",
		"":                           "",
		"already-a-slug":             "already-a-slug",
		"Perguntas Frequentes (FAQ)": "perguntas-frequentes-faq",
		"100% Online":                "100-online",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), in)
	}
}

func TestGenerateSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Solicitação de Acesso", "ÇÃÕ éèê", "a__b", "-x-", "Título 2024 — Versão",
		"日本語", "MiXeD CaSe", "tab\tand\nnewline",
	}
	for _, in := range inputs {
		once := GenerateSlug(in)
		assert.Equal(t, once, GenerateSlug(once), in)
		assert.Regexp(t, `^([a-z0-9]+(-[a-z0-9]+)*)?$`, once)
	}
}
