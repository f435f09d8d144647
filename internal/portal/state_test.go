package portal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/domain"
)

func TestAppState_NotRegisteredRedirectsToRegistration(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	state := NewAppState(20*time.Millisecond, nil)
	defer state.Close()

	state.ApplyLookup(LookupResult{State: LookupNotRegistered})
	assert.Equal(t, ViewNotRegistered, state.View())
	assert.Greater(t, state.RedirectIn(), time.Duration(0))

	assert.Eventually(t, func() bool { return state.View() == ViewRegister }, time.Second, 5*time.Millisecond)
	assert.Zero(t, state.RedirectIn())
	assert.Equal(t, LookupNotRegistered, state.LastLookup().State)
}

func TestAppState_NavigatingAwayCancelsRedirect(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	state := NewAppState(30*time.Millisecond, nil)
	defer state.Close()

	state.ApplyLookup(LookupResult{State: LookupNotRegistered})
	state.Navigate(ViewHome)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, ViewHome, state.View())
}

func TestAppState_LookupAndProfileViews(t *testing.T) {
	var views []View
	state := NewAppState(time.Hour, func(v View) { views = append(views, v) })
	defer state.Close()

	rec := &domain.ClientRecord{ID: "L02", Status: domain.ClientStatusWaiting}
	state.ApplyLookup(ResultFor(rec))
	assert.Equal(t, ViewPending, state.View())

	staff := "S1"
	delivered := &domain.ClientRecord{ID: "L02", Status: domain.ClientStatusDelivered, FotosSubidas: []string{"u"}, FotografoAsignado: &staff}
	state.ApplyLookup(ResultFor(delivered))
	assert.Equal(t, ViewGallery, state.View())

	state.SetProfile(&Profile{Staff: dto.StaffUserResponse{ID: "S1", Role: string(domain.StaffRolePhotographer)}})
	assert.Equal(t, ViewStaffDashboard, state.View())
	state.SetProfile(&Profile{Staff: dto.StaffUserResponse{ID: "A1", Role: string(domain.StaffRoleAdmin)}})
	assert.Equal(t, ViewAdminDashboard, state.View())
	state.SetProfile(nil)
	assert.Equal(t, ViewHome, state.View())

	assert.Equal(t, []View{ViewPending, ViewGallery, ViewStaffDashboard, ViewAdminDashboard, ViewHome}, views)
}
