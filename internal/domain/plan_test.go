package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func stepNames(steps []PlanStep) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func TestDeploymentPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    *DeploymentPlan
		wantErr string
	}{
		{
			name: "valid",
			plan: &DeploymentPlan{
				Record: "Marketplace",
				Units: map[string]*Unit{
					"RiskLib":     {Contract: "HealthRiskLib"},
					"Marketplace": {Contract: "HealthDataMarketplace", Deps: []string{"RiskLib"}, Args: []Arg{{Ref: "RiskLib", Optional: true}, {PlatformWallet: true}}},
				},
			},
		},
		{
			name:    "no units",
			plan:    &DeploymentPlan{},
			wantErr: "at least one unit is required",
		},
		{
			name:    "unknown record",
			plan:    &DeploymentPlan{Record: "Nope", Units: map[string]*Unit{"A": {Contract: "A"}}},
			wantErr: "record unit 'Nope' is not defined",
		},
		{
			name:    "missing contract",
			plan:    &DeploymentPlan{Units: map[string]*Unit{"A": {}}},
			wantErr: "unit 'A' must specify a contract",
		},
		{
			name:    "self dependency",
			plan:    &DeploymentPlan{Units: map[string]*Unit{"A": {Contract: "A", Deps: []string{"A"}}}},
			wantErr: "unit 'A' cannot depend on itself",
		},
		{
			name:    "unknown dependency",
			plan:    &DeploymentPlan{Units: map[string]*Unit{"A": {Contract: "A", Deps: []string{"B"}}}},
			wantErr: "unit 'A' depends on non-existent unit 'B'",
		},
		{
			name:    "arg with two sources",
			plan:    &DeploymentPlan{Units: map[string]*Unit{"A": {Contract: "A", Args: []Arg{{Value: strPtr("1"), Deployer: true}}}}},
			wantErr: "arg 0 must set exactly one",
		},
		{
			name:    "arg with no source",
			plan:    &DeploymentPlan{Units: map[string]*Unit{"A": {Contract: "A", Args: []Arg{{}}}}},
			wantErr: "arg 0 must set exactly one",
		},
		{
			name:    "optional without ref",
			plan:    &DeploymentPlan{Units: map[string]*Unit{"A": {Contract: "A", Args: []Arg{{Deployer: true, Optional: true}}}}},
			wantErr: "optional only applies to ref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPlan)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDeploymentPlanOrder(t *testing.T) {
	plan := &DeploymentPlan{
		Units: map[string]*Unit{
			"Marketplace": {Contract: "HealthDataMarketplace", Deps: []string{"RiskLib", "Registry"}},
			"RiskLib":     {Contract: "HealthRiskLib"},
			"Registry":    {Contract: "PatientRegistry", Deps: []string{"AccessLib"}},
			"AccessLib":   {Contract: "AccessLib"},
			"Faucet":      {Contract: "Faucet"},
		},
	}

	steps, err := plan.Order()
	require.NoError(t, err)
	assert.Equal(t, []string{"AccessLib", "Faucet", "Registry", "RiskLib", "Marketplace"}, stepNames(steps))

	// Deterministic across runs despite map iteration
	for i := 0; i < 20; i++ {
		again, err := plan.Order()
		require.NoError(t, err)
		assert.Equal(t, stepNames(steps), stepNames(again))
	}
}

func TestDeploymentPlanOrderCycle(t *testing.T) {
	plan := &DeploymentPlan{
		Units: map[string]*Unit{
			"A": {Contract: "A", Deps: []string{"C"}},
			"B": {Contract: "B", Deps: []string{"A"}},
			"C": {Contract: "C", Deps: []string{"B"}},
			"D": {Contract: "D"},
		},
	}

	_, err := plan.Order()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPlan)
	assert.Contains(t, err.Error(), "circular dependency detected involving units: [A B C]")
}

func TestDeploymentPlanSelect(t *testing.T) {
	plan := &DeploymentPlan{
		Units: map[string]*Unit{
			"Marketplace": {Contract: "HealthDataMarketplace", Deps: []string{"RiskLib"}},
			"RiskLib":     {Contract: "HealthRiskLib"},
			"Faucet":      {Contract: "Faucet"},
		},
	}

	all, err := plan.Select(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Faucet", "RiskLib", "Marketplace"}, stepNames(all))

	some, err := plan.Select([]string{"Marketplace"})
	require.NoError(t, err)
	assert.Equal(t, []string{"RiskLib", "Marketplace"}, stepNames(some))

	_, err = plan.Select([]string{"Oracle"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = plan.Select([]string{"Marketplce"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean 'Marketplace'?")
}

func TestArgKind(t *testing.T) {
	assert.Equal(t, "value", Arg{Value: strPtr("")}.Kind())
	assert.Equal(t, "ref", Arg{Ref: "RiskLib"}.Kind())
	assert.Equal(t, "deployer", Arg{Deployer: true}.Kind())
	assert.Equal(t, "platform_wallet", Arg{PlatformWallet: true}.Kind())
	assert.Equal(t, "none", Arg{}.Kind())
}
