package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/evanw/css21/internal/logger"
)

// A nil timer is valid and records nothing
type Timer struct {
	data []timerData
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

func (t *Timer) Begin(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name: name,
			time: time.Now(),
		})
	}
}

func (t *Timer) End(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name:  name,
			time:  time.Now(),
			isEnd: true,
		})
	}
}

func (t *Timer) Log(log logger.Log) {
	if t == nil {
		return
	}

	type pair struct {
		timerData
		index int
	}

	var lines []string
	var stack []pair
	indent := 0

	for _, item := range t.data {
		if !item.isEnd {
			stack = append(stack, pair{timerData: item, index: len(lines)})
			lines = append(lines, "")
			indent++
		} else {
			indent--
			last := len(stack) - 1
			top := stack[last]
			stack = stack[:last]
			if item.name != top.name {
				panic("Internal error")
			}
			lines[top.index] = fmt.Sprintf("  %s%s: %s",
				strings.Repeat("  ", indent),
				top.name,
				item.time.Sub(top.time))
		}
	}

	log.AddInfo("Timing information:\n" + strings.Join(lines, "\n"))
}
