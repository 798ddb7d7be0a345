package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

func defaults(t *testing.T, svc *AddressService, userID uint) []uint {
	t.Helper()
	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	var ids []uint
	for _, a := range list {
		if a.IsDefault {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func TestAddresses_SingleDefault(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	svc := &AddressService{Repo: r}
	user := seedUser(t, r, "ana@example.com", models.RoleCustomer)
	zone := seedZone(t, r, "Altamira", "2.50")

	home, err := svc.Create(ctx, user.ID, transport.AddressRequest{Label: "Casa", Address: "Calle 3, qta. Ana", DeliveryZoneID: &zone.ID})
	require.NoError(t, err)
	assert.True(t, home.IsDefault, "first address becomes the default")
	require.NotNil(t, home.DeliveryZone)
	assert.Equal(t, "Altamira", home.DeliveryZone.Name)

	work, err := svc.Create(ctx, user.ID, transport.AddressRequest{Label: "Oficina", Address: "Torre Sur, piso 4"})
	require.NoError(t, err)
	assert.False(t, work.IsDefault)
	assert.Equal(t, []uint{home.ID}, defaults(t, svc, user.ID))

	gym, err := svc.Create(ctx, user.ID, transport.AddressRequest{Label: "Gimnasio", Address: "CC El Recreo", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, gym.IsDefault)
	assert.Equal(t, []uint{gym.ID}, defaults(t, svc, user.ID))

	_, err = svc.Update(ctx, user.ID, work.ID, transport.PatchAddressRequest{IsDefault: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, []uint{work.ID}, defaults(t, svc, user.ID))

	still, err := svc.Update(ctx, user.ID, work.ID, transport.PatchAddressRequest{IsDefault: ptr(false), Label: ptr("Trabajo")})
	require.NoError(t, err)
	assert.True(t, still.IsDefault, "the only default cannot be switched off")
	assert.Equal(t, "Trabajo", still.Label)

	require.NoError(t, svc.Delete(ctx, user.ID, work.ID))
	assert.Equal(t, []uint{gym.ID}, defaults(t, svc, user.ID), "newest remaining address is promoted")
}

func TestAddresses_Validation(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	svc := &AddressService{Repo: r}
	user := seedUser(t, r, "luis@example.com", models.RoleCustomer)

	_, err := svc.Create(ctx, user.ID, transport.AddressRequest{Label: " ", Address: "", DeliveryZoneID: ptr(uint(42))})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "label")
	assert.Contains(t, ve.Fields, "address")
	assert.Contains(t, ve.Fields, "deliveryZoneId")
}

func TestAddresses_BelongToTheirOwner(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	svc := &AddressService{Repo: r}
	owner := seedUser(t, r, "owner@example.com", models.RoleCustomer)
	other := seedUser(t, r, "other@example.com", models.RoleCustomer)

	a, err := svc.Create(ctx, owner.ID, transport.AddressRequest{Label: "Casa", Address: "Los Palos Grandes"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, other.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Update(ctx, other.ID, a.ID, transport.PatchAddressRequest{Label: ptr("Mía")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, other.ID, a.ID), domain.ErrNotFound)

	list, err := svc.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddresses_ConcurrentDefaults(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	svc := &AddressService{Repo: r}
	user := seedUser(t, r, "rosa@example.com", models.RoleCustomer)

	const n = 6
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, user.ID, transport.AddressRequest{
				Label:     fmt.Sprintf("Casa %d", i),
				Address:   "Chacao",
				IsDefault: i%2 == 0,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, n)
	assert.Len(t, defaults(t, svc, user.ID), 1)
}

func TestAddresses_UnknownUser(t *testing.T) {
	r := newRepo(t)
	svc := &AddressService{Repo: r}

	_, err := svc.Create(context.Background(), 999, transport.AddressRequest{Label: "Casa", Address: "Chacao"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
