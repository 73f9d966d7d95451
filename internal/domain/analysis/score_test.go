package analysis

import "testing"

func TestScoreBand(t *testing.T) {
	cases := map[float64]Band{
		-5:   BandClean,
		0:    BandClean,
		20:   BandClean,
		20.5: BandMinor,
		40:   BandMinor,
		41:   BandModerate,
		60:   BandModerate,
		61:   BandSignificant,
		80:   BandSignificant,
		81:   BandSevere,
		100:  BandSevere,
		150:  BandSevere,
	}
	for score, want := range cases {
		if got := ScoreBand(score); got != want {
			t.Errorf("ScoreBand(%v) = %s, want %s", score, got, want)
		}
	}
}

func TestClampScore(t *testing.T) {
	if got := ClampScore(-1); got != 0 {
		t.Errorf("ClampScore(-1) = %v", got)
	}
	if got := ClampScore(55); got != 55 {
		t.Errorf("ClampScore(55) = %v", got)
	}
	if got := ClampScore(101); got != 100 {
		t.Errorf("ClampScore(101) = %v", got)
	}
}

func TestParseProfile(t *testing.T) {
	if p, err := ParseProfile(""); err != nil || p != DefaultProfile {
		t.Errorf(`ParseProfile("") = %q, %v`, p, err)
	}
	if p, err := ParseProfile("dynamic"); err != nil || p != ProfileDynamic {
		t.Errorf(`ParseProfile("dynamic") = %q, %v`, p, err)
	}
	if _, err := ParseProfile("other"); err == nil {
		t.Error(`ParseProfile("other") should fail`)
	}
}
