package schedule_test

import (
	"testing"
	"time"

	"github.com/aeroproject/aerobot/schedule"
	"github.com/marcsantiago/gocron"
	"github.com/stretchr/testify/assert"
)

func TestDefinitionString(t *testing.T) {
	definitionToString := []struct {
		d              schedule.Definition
		friendlyString string
	}{
		{schedule.Definition{Interval: 1, Weekday: time.Monday.String(), AtTime: "10:00"}, "Every Monday at 10:00"},
		{schedule.Definition{Interval: 1, Weekday: time.Sunday.String(), AtTime: "04:00"}, "Every Sunday at 04:00"},
		{schedule.Definition{Interval: 1, Unit: schedule.Seconds}, "Every second"},
		{schedule.Definition{Interval: 2, Unit: schedule.Seconds}, "Every 2 seconds"},
		{schedule.Definition{Interval: 1, Unit: schedule.Minutes}, "Every minute"},
		{schedule.Definition{Interval: 30, Unit: schedule.Minutes}, "Every 30 minutes"},
		{schedule.Definition{Interval: 1, Unit: schedule.Hours}, "Every hour"},
		{schedule.Definition{Interval: 1, Unit: schedule.Days, AtTime: "10:00"}, "Every day at 10:00"},
		{schedule.Definition{Interval: 2, Unit: schedule.Days, AtTime: "10:00"}, "Every 2 days at 10:00"},
		{schedule.Definition{Interval: 2, Unit: schedule.Weeks}, "Every 2 weeks"},
	}

	for _, testCase := range definitionToString {
		t.Run(testCase.friendlyString, func(t *testing.T) {
			assert.Equalf(t, testCase.friendlyString, testCase.d.String(), "Expected different string value for schedule definition: %v", testCase.d)
		})
	}
}

func TestNewJobFromDefinition(t *testing.T) {
	definitionToResult := []struct {
		d            schedule.Definition
		valid        bool
		errorMessage string
	}{
		{schedule.Definition{Interval: 1, Weekday: time.Monday.String(), AtTime: "10:00"}, true, ""},
		{schedule.Definition{Interval: 1, Weekday: time.Friday.String(), AtTime: "06:00"}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Seconds}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Minutes}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Hours}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Days, AtTime: "10:00"}, true, ""},
		{schedule.Definition{Interval: 1, Unit: schedule.Weeks}, true, ""},
		{schedule.Definition{Interval: 2, Unit: schedule.Weeks, Weekday: time.Monday.String()}, true, ""}, // A weekday wins over the unit and interval
		{schedule.Definition{Interval: 1, Unit: "fortnights"}, false, "Invalid unit [fortnights]"},
		{schedule.Definition{Interval: 0, Unit: schedule.Days}, false, "Invalid interval [0]"},
		{schedule.Definition{Weekday: "Caturday"}, false, "Invalid weekday [Caturday]"},
	}

	scheduler := gocron.NewScheduler()
	for _, testCase := range definitionToResult {
		t.Run(testCase.d.String(), func(t *testing.T) {
			_, err := schedule.NewJob(scheduler, testCase.d)

			if testCase.valid {
				assert.Nilf(t, err, "Expected valid job to be created for schedule definition: %v", testCase.d)
			} else {
				if assert.NotNil(t, err) {
					assert.Contains(t, err.Error(), testCase.errorMessage)
				}
			}
		})
	}
}
