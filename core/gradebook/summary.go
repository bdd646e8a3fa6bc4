package gradebook

import (
	"fmt"
	"math"
	"strconv"
)

// StudentAverage is the mean score of one student.
type StudentAverage struct {
	StudentID int
	Label     string
	Average   float64
	Count     int
}

func (a StudentAverage) Display() string { return strconv.FormatFloat(a.Average, 'f', 1, 64) }

// SubjectMax is the best score recorded for one subject.
type SubjectMax struct {
	SubjectID int
	Label     string
	Max       float64
}

func (m SubjectMax) Display() string { return strconv.FormatFloat(m.Max, 'f', 1, 64) }

type Summary struct {
	Averages []StudentAverage
	Maxima   []SubjectMax
}

// Summary aggregates the cached scores, in order of first appearance.
func (vm *ViewModel) Summary() Summary {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	var (
		sum    Summary
		avgIdx = map[int]int{}
		maxIdx = map[int]int{}
		totals []float64
	)
	for _, s := range vm.scores {
		i, ok := avgIdx[s.StudentID]
		if !ok {
			label := Unknown
			if st, found := vm.findStudent(s.StudentID); found {
				label = fmt.Sprintf("%s (ID: %d)", st.Name, st.ID)
			}
			i = len(sum.Averages)
			avgIdx[s.StudentID] = i
			sum.Averages = append(sum.Averages, StudentAverage{StudentID: s.StudentID, Label: label})
			totals = append(totals, 0)
		}
		totals[i] += s.Value
		sum.Averages[i].Count++

		j, ok := maxIdx[s.SubjectID]
		if !ok {
			label := Unknown
			if sb, found := vm.findSubject(s.SubjectID); found {
				label = fmt.Sprintf("%s (ID: %d)", sb.Name, sb.ID)
			}
			j = len(sum.Maxima)
			maxIdx[s.SubjectID] = j
			sum.Maxima = append(sum.Maxima, SubjectMax{SubjectID: s.SubjectID, Label: label, Max: s.Value})
		} else if s.Value > sum.Maxima[j].Max {
			sum.Maxima[j].Max = s.Value
		}
	}
	for i := range sum.Averages {
		sum.Averages[i].Average = math.Round(totals[i]/float64(sum.Averages[i].Count)*10) / 10
	}
	return sum
}
