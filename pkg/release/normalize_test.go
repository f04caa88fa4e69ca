package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Apothecary Diaries", "apothecary diaries"},
		{"A Sign of Affection", "sign of affection"},
		{"Fruits Basket & Friends", "fruits basket and friends"},
		{"Léon: The Professional", "leon professional"},
		{"Re:Zero - Starting Life in Another World", "re zero starting life in another world"},
		{"  Extra   Spaces  ", "extra spaces"},
		{"Mushoku Tensei II", "mushoku tensei 2"},
		{"SPY x FAMILY", "spy x family"},
		{"ＳＰＹ×ＦＡＭＩＬＹ", "spy x family"},
		{"Ｏｓｈｉ ｎｏ Ｋｏ", "oshi no ko"},
		{"葬送的芙莉蓮", "葬送的芙莉蓮"},
		{"ぼっち・ざ・ろっく！", "ぼっち ざ ろっく"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.input))
		})
	}
}

func TestNormalizeRomanNumerals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"overlord iv", "overlord 4"},
		{"vii days", "vii days"},
		{"i robot", "i robot"},
		{"spy x family", "spy x family"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRomanNumerals(tt.input))
		})
	}
}
