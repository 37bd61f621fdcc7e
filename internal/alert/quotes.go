package alert

import (
	"math/rand"

	"github.com/minaretlabs/minaret/internal/model"
)

type quote struct {
	Type     string
	Text     string
	Source   string
	TextEn   string
	SourceEn string
}

var islamicQuotes = []quote{
	{
		Type:     "QURAN",
		Text:     "الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ",
		Source:   "سورة الفاتحة - 2",
		TextEn:   "All praise is [due] to Allah, Lord of the worlds.",
		SourceEn: "Surah Al-Fatihah - 2",
	},
	{
		Type:     "QURAN",
		Text:     "إِيَّاكَ نَعْبُدُ وَإِيَّاكَ نَسْتَعِينُ",
		Source:   "سورة الفاتحة - 5",
		TextEn:   "It is You we worship and You we ask for help.",
		SourceEn: "Surah Al-Fatihah - 5",
	},
	{
		Type:     "QURAN",
		Text:     "اللَّهُ لَا إِلَهَ إِلَّا هُوَ الْحَيُّ الْقَيُّومُ",
		Source:   "سورة البقرة - 255",
		TextEn:   "Allah - there is no deity except Him, the Ever-Living, the Sustainer of [all] existence.",
		SourceEn: "Surah Al-Baqarah - 255",
	},
	{
		Type:     "QURAN",
		Text:     "لَا يُكَلِّفُ اللَّهُ نَفْسًا إِلَّا وُسْعَهَا",
		Source:   "سورة البقرة - 286",
		TextEn:   "Allah does not charge a soul except [with that within] its capacity.",
		SourceEn: "Surah Al-Baqarah - 286",
	},
	{
		Type:     "QURAN",
		Text:     "وَاعْتَصِمُوا بِحَبْلِ اللَّهِ جَمِيعًا وَلَا تَفَرَّقُوا",
		Source:   "سورة آل عمران - 103",
		TextEn:   "And hold firmly to the rope of Allah all together and do not become divided.",
		SourceEn: "Surah Ali 'Imran - 103",
	},
	{
		Type:     "QURAN",
		Text:     "إِنَّ مَعَ الْعُسْرِ يُسْرًا",
		Source:   "سورة الشرح - 6",
		TextEn:   "Indeed, with hardship [will be] ease.",
		SourceEn: "Surah Ash-Sharh - 6",
	},
	{
		Type:     "HADITH",
		Text:     "إنما الأعمال بالنيات، وإنما لكل امرئ ما نوى",
		Source:   "متفق عليه",
		TextEn:   "Actions are but by intentions, and every man shall have only that which he intended.",
		SourceEn: "Agreed upon",
	},
	{
		Type:     "HADITH",
		Text:     "من حسن إسلام المرء تركه ما لا يعنيه",
		Source:   "رواه الترمذي",
		TextEn:   "Part of the perfection of one's Islam is his leaving that which does not concern him.",
		SourceEn: "At-Tirmidhi",
	},
	{
		Type:     "HADITH",
		Text:     "الصلاة نور",
		Source:   "رواه مسلم",
		TextEn:   "Prayer is a light.",
		SourceEn: "Muslim",
	},
}

var adhkarTexts = []quote{
	{
		Type:     "DHIKR",
		Text:     "سبحان الله وبحمده، سبحان الله العظيم",
		Source:   "متفق عليه",
		TextEn:   "Glory be to Allah and praise Him; glory be to Allah the Magnificent.",
		SourceEn: "Agreed upon",
	},
	{
		Type:     "DHIKR",
		Text:     "لا إله إلا الله وحده لا شريك له",
		Source:   "متفق عليه",
		TextEn:   "There is no deity but Allah alone, with no partner.",
		SourceEn: "Agreed upon",
	},
	{
		Type:     "DHIKR",
		Text:     "أستغفر الله وأتوب إليه",
		Source:   "رواه البخاري",
		TextEn:   "I seek the forgiveness of Allah and repent to Him.",
		SourceEn: "Al-Bukhari",
	},
	{
		Type:     "DHIKR",
		Text:     "اللهم صل وسلم على نبينا محمد",
		Source:   "",
		TextEn:   "O Allah, send blessings and peace upon our Prophet Muhammad.",
		SourceEn: "",
	},
	{
		Type:     "DHIKR",
		Text:     "لا حول ولا قوة إلا بالله",
		Source:   "متفق عليه",
		TextEn:   "There is no might nor power except with Allah.",
		SourceEn: "Agreed upon",
	},
}

func (q quote) localize(lang string) model.Quote {
	out := model.Quote{Type: q.Type, Text: q.Text, Source: q.Source}
	if lang == "en" && q.TextEn != "" {
		out.Text = q.TextEn
		out.Source = q.SourceEn
	}
	return out
}

// RandomQuote picks a quote for the iqama screen in the given language.
func RandomQuote(lang string) model.Quote {
	return islamicQuotes[rand.Intn(len(islamicQuotes))].localize(lang)
}

// RandomDhikr picks a remembrance text for the periodic adhkar reminder.
func RandomDhikr(lang string) model.Quote {
	return adhkarTexts[rand.Intn(len(adhkarTexts))].localize(lang)
}
