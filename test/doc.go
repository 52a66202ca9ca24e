// Package test provides the base testify suite for whitebox compute tests.
//
// A whitebox test provisions servers through the compute API like any
// functional test, then looks past the API: it reads the nova database,
// runs nova-manage on the API host and opens SSH sessions to compute hosts
// and guests.
//
// The package provides:
//
//   - WhiteboxTest: a marker embedded by every whitebox suite
//
//   - ComputeWhiteboxTest: a suite that loads configuration, skips itself
//     when whitebox testing is disabled, creates servers and deletes them on
//     teardown, and exposes database, nova-manage and SSH helpers
//
//   - mocks: a fake compute API and fake command runners for exercising
//     suites without a cloud
//
// Example Usage:
//
//	type ServerStateSuite struct {
//	    test.ComputeWhiteboxTest
//	}
//
//	func (s *ServerStateSuite) TestActiveServerRow() {
//	    server, err := s.CreateServer(test.WithWaitUntil(compute.StatusActive))
//	    s.Require().NoError(err)
//
//	    handle, _, err := s.DBHandleAndMeta("")
//	    s.Require().NoError(err)
//	    inst, err := repos.NewInstanceRepository(handle).GetByUUID(s.Context(), server.ID)
//	    s.Require().NoError(err)
//	    s.Equal(models.VMStateActive, inst.VMState)
//	}
//
//	func TestServerStateSuite(t *testing.T) {
//	    suite.Run(t, new(ServerStateSuite))
//	}
package test
