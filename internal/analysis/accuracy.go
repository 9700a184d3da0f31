package analysis

import "github.com/verte-zerg/typestats/internal/model"

// Accuracy is the keypress-level accuracy of a keystroke log.
type Accuracy struct {
	Total   int
	Correct int
	Percent float64
}

// KeypressAccuracy replays keys against target with a virtual cursor.
// Each printable key is compared with the target rune under the cursor;
// backspace moves the cursor back and is not counted as a keypress.
func KeypressAccuracy(keys []model.Keystroke, target string) Accuracy {
	t := []rune(target)
	var acc Accuracy
	pos := 0
	for _, k := range keys {
		if k.IsBackspace() {
			if pos > 0 {
				pos--
			}
			continue
		}
		acc.Total++
		if pos < len(t) && k.Key == string(t[pos]) {
			acc.Correct++
		}
		pos++
	}
	acc.Percent = percent(acc.Correct, acc.Total)
	return acc
}

// CharacterStats compares the final input with the target rune by rune.
func CharacterStats(target, input string) model.CharacterStats {
	t := []rune(target)
	in := []rune(input)
	var cs model.CharacterStats
	shorter := min(len(t), len(in))
	for i := 0; i < shorter; i++ {
		if t[i] == in[i] {
			cs.Correct++
		} else {
			cs.Incorrect++
		}
	}
	cs.Extra = max(0, len(in)-len(t))
	cs.Missed = max(0, len(t)-len(in))
	return cs
}

// CharacterAccuracy is the final-string accuracy: correct characters over
// all compared, extra and missed characters.
func CharacterAccuracy(cs model.CharacterStats) float64 {
	return percent(cs.Correct, cs.Correct+cs.Incorrect+cs.Extra+cs.Missed)
}

// percent returns part/whole*100, or 100 when whole is zero.
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 100
	}
	return float64(part) / float64(whole) * 100
}
