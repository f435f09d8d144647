package handlers

import (
	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/domain"
)

func clientResponse(rec domain.ClientRecord) dto.ClientResponse {
	resp := dto.ClientResponse{
		ID:                rec.ID,
		Tipo:              string(rec.Kind),
		Nombre:            rec.Nombre,
		Telefono:          rec.Telefono,
		Instagram:         rec.Instagram,
		AceptaPublicidad:  rec.AceptaPublicidad,
		FotoReferencia:    rec.FotoReferencia,
		Status:            string(rec.Status),
		FotosSubidas:      rec.FotosSubidas,
		FotografoAsignado: rec.FotografoAsignado,
		FechaRegistro:     rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
	if rec.Zone != nil {
		resp.ZonaID = rec.Zone.ZoneID
		resp.ZonaNombre = rec.Zone.ZoneName
	}
	if rec.Activity != nil {
		resp.NegocioID = rec.Activity.BusinessID
		resp.NegocioNombre = rec.Activity.BusinessName
		resp.ActividadID = rec.Activity.ActivityID
		resp.ActividadNombre = rec.Activity.ActivityName
	}
	return resp
}

func zoneResponse(z domain.Zone) dto.ZoneResponse {
	return dto.ZoneResponse{
		ID:                  z.ID,
		Nombre:              z.Nombre,
		Descripcion:         z.Descripcion,
		Activa:              z.Activa,
		FotografosAsignados: nonNil(z.FotografosAsignados),
		CreatedAt:           z.CreatedAt,
	}
}

func businessResponse(b domain.Business) dto.BusinessResponse {
	return dto.BusinessResponse{
		ID:        b.ID,
		Nombre:    b.Nombre,
		Direccion: b.Direccion,
		Telefono:  b.Telefono,
		Activo:    b.Activo,
		CreatedAt: b.CreatedAt,
	}
}

func activityResponse(a domain.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:                  a.ID,
		NegocioID:           a.NegocioID,
		NegocioNombre:       a.NegocioNombre,
		Nombre:              a.Nombre,
		Descripcion:         a.Descripcion,
		Fecha:               a.Fecha,
		Activa:              a.Activa,
		FotografosAsignados: nonNil(a.FotografosAsignados),
		CreatedAt:           a.CreatedAt,
	}
}

func serviceRequestResponse(r domain.ServiceRequest) dto.ServiceRequestResponse {
	return dto.ServiceRequestResponse{
		ID:   r.ID,
		Tipo: string(r.Tipo),
		Detalles: dto.ServiceDetailsPayload{
			Locacion:    r.Detalles.Locacion,
			Descripcion: r.Detalles.Descripcion,
			FechaEvento: r.Detalles.FechaEvento,
			Horas:       r.Detalles.Horas,
			Personas:    r.Detalles.Personas,
		},
		Contacto: dto.ServiceContactPayload{
			Nombre:   r.Contacto.Nombre,
			Telefono: r.Contacto.Telefono,
			Email:    r.Contacto.Email,
		},
		CotizacionEstimada:  r.CotizacionEstimada,
		FotografoAsignadoID: r.FotografoAsignadoID,
		Status:              string(r.Status),
		CreatedAt:           r.CreatedAt,
	}
}

func applicationResponse(a domain.StaffApplication) dto.StaffApplicationResponse {
	return dto.StaffApplicationResponse{
		ID:              a.ID,
		Nombre:          a.Nombre,
		Email:           a.Email,
		Telefono:        a.Telefono,
		Experiencia:     a.Experiencia,
		Equipo:          a.Equipo,
		Especialidades:  nonNil(a.Especialidades),
		FotosReferencia: nonNil(a.FotosReferencia),
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
	}
}

func staffResponse(u domain.StaffUser) dto.StaffUserResponse {
	return dto.StaffUserResponse{
		ID:                   u.ID,
		Nombre:               u.Nombre,
		Email:                u.Email,
		Telefono:             u.Telefono,
		Role:                 string(u.Role),
		IsActive:             u.IsActive,
		ZonasAsignadas:       nonNil(u.ZonasAsignadas),
		ActividadesAsignadas: nonNil(u.ActividadesAsignadas),
		CreatedAt:            u.CreatedAt,
	}
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
