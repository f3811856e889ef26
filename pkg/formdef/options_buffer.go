package formdef

import "strings"

// OptionsBuffer seçenekler için serbest metin düzenleme tamponu. Sadece arayüz
// durumudur; kalıcı değer her zaman Commit sonucudur.
type OptionsBuffer struct {
	text string
}

// BufferFrom mevcut seçenekleri satır satır tampona yazar.
func BufferFrom(options []string) OptionsBuffer {
	return OptionsBuffer{text: strings.Join(options, "\n")}
}

func (b *OptionsBuffer) Set(text string) { b.text = text }

func (b OptionsBuffer) Text() string { return b.text }

// Commit tamponu satırlara böler, boş satırları atar. Sıra korunur.
func (b OptionsBuffer) Commit() []string {
	return filterOptions([]string{b.text})
}
