// Package mocks provides testify mocks of the interfaces shared across
// packages, for tests that need to script failures a real implementation
// cannot produce on demand.
//
//	st := &mocks.UserStore{}
//	st.On("GetCardSet", mock.Anything, "u1").Return(nil, errors.New("connection reset"))
//	defer st.AssertExpectations(t)
package mocks
