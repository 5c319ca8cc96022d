package main

import (
	"bytes"
	"testing"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintUnitsFiltered(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printUnits(&buf, catalog.MustDefault(), goals.MetricDuration, goals.GoalTypeEducation)

	out := buf.String()
	assert.Contains(t, out, "Default unit: hours")
	assert.Contains(t, out, "minutes")
	assert.Contains(t, out, "weeks")
	assert.NotContains(t, out, "workouts")
}

func TestPrintUnitsAmountHasNoDefault(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printUnits(&buf, catalog.MustDefault(), goals.MetricAmount, goals.GoalTypeFinancial)
	assert.Contains(t, buf.String(), "Default unit: (none)")
}

func TestPrintTemplates(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printTemplates(&buf, catalog.MustDefault())

	out := buf.String()
	assert.Contains(t, out, "emergency-fund")
	assert.Contains(t, out, "financial/amount/save, target 10000")
	assert.Contains(t, out, "scenario: financialSave")
	assert.Contains(t, out, "health/count in workouts")
}
