package simulation

import (
	"testing"

	"travelcore/testutil"
)

// The pass runner reaches tables and ledgers only through blob.Store and
// domain.ConvergenceLedger.
func TestSimulationAvoidsInfraDrivers(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden, "drivers are selected by internal/blob and internal/core")
	testutil.AssertNoDirectImports(t, "../shadowprice", testutil.InfraImportForbidden, "tables are stored through blob.Store")
}
