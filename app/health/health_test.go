package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HealthCheckTestSuite struct {
	suite.Suite
	checker *Checker
	router  *mux.Router
	clock   time.Time
}

func TestHealthCheckTestSuite(t *testing.T) {
	suite.Run(t, new(HealthCheckTestSuite))
}

func (suite *HealthCheckTestSuite) SetupTest() {
	suite.clock = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.checker = NewChecker(log.NewNopLogger(), Config{Version: "test", StaleAfter: time.Minute})
	suite.checker.now = func() time.Time { return suite.clock }
	suite.router = mux.NewRouter()
	suite.checker.RegisterRoutes(suite.router)
}

func (suite *HealthCheckTestSuite) healthyStatus() PoolStatus {
	return PoolStatus{
		Height:      5,
		BlockTime:   suite.clock,
		AppHash:     "ABCD",
		ReserveA:    math.NewInt(1000),
		ReserveB:    math.NewInt(2000),
		TotalSupply: math.NewInt(1414),
		Reconciled:  true,
	}
}

func (suite *HealthCheckTestSuite) get(path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func (suite *HealthCheckTestSuite) TestLiveness() {
	rec, body := suite.get("/health")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Equal("ok", body["status"])
}

func (suite *HealthCheckTestSuite) TestReadyBeforeFirstStatus() {
	rec, body := suite.get("/health/ready")
	suite.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	suite.Require().Equal(string(StatusUnknown), body["status"])
}

func (suite *HealthCheckTestSuite) TestHealthy() {
	suite.checker.Update(suite.healthyStatus())

	rec, body := suite.get("/health/detailed")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Equal(string(StatusHealthy), body["status"])
	suite.Require().Equal("test", body["version"])

	components := body["components"].(map[string]interface{})
	reserves := components["reserves"].(map[string]interface{})
	metrics := reserves["metrics"].(map[string]interface{})
	suite.Require().Equal("1000", metrics["reserve_a"])
}

func (suite *HealthCheckTestSuite) TestPausedIsDegradedButReady() {
	s := suite.healthyStatus()
	s.Paused = true
	suite.checker.Update(s)

	rec, body := suite.get("/health/ready")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Require().Equal(string(StatusDegraded), body["status"])
}

func (suite *HealthCheckTestSuite) TestHaltedIsUnhealthy() {
	s := suite.healthyStatus()
	s.Halted = true
	suite.checker.Update(s)

	rec, _ := suite.get("/health/ready")
	suite.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	rec, body := suite.get("/health/detailed")
	suite.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	suite.Require().Equal(string(StatusUnhealthy), body["status"])
}

func (suite *HealthCheckTestSuite) TestStaleStatus() {
	suite.checker.Update(suite.healthyStatus())
	suite.clock = suite.clock.Add(2 * time.Minute)

	health := suite.checker.Check()
	suite.Require().Equal(StatusDegraded, health.Status)
	suite.Require().Equal(StatusDegraded, health.Components["chain"].Status)
}

func TestCalculateOverallStatus(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]ComponentHealth
		want       Status
	}{
		{"all healthy", map[string]ComponentHealth{"a": {Status: StatusHealthy}, "b": {Status: StatusHealthy}}, StatusHealthy},
		{"one degraded", map[string]ComponentHealth{"a": {Status: StatusHealthy}, "b": {Status: StatusDegraded}}, StatusDegraded},
		{"unknown counts as degraded", map[string]ComponentHealth{"a": {Status: StatusUnknown}}, StatusDegraded},
		{"unhealthy wins", map[string]ComponentHealth{"a": {Status: StatusDegraded}, "b": {Status: StatusUnhealthy}}, StatusUnhealthy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, calculateOverallStatus(tc.components))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, time.Minute, cfg.StaleAfter)
	require.Empty(t, cfg.Version)
}
