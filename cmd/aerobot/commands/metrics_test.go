package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeterDisabled(t *testing.T) {
	meter, ms, err := newMeter("", logrus.New())
	require.NoError(t, err)

	assert.NotNil(t, meter)
	assert.NoError(t, ms.Close())
}

func TestNewMeterServesPrometheusMetrics(t *testing.T) {
	meter, ms, err := newMeter("127.0.0.1:0", logrus.New())
	require.NoError(t, err)

	counter, err := meter.Int64Counter("statsFetcher_Fetch_Calls")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", ms.listener.Addr()))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "statsFetcher_Fetch_Calls")

	assert.NoError(t, ms.Close())
}

func TestNewMeterInvalidAddress(t *testing.T) {
	_, _, err := newMeter("not-an-address", logrus.New())

	assert.Error(t, err)
}
