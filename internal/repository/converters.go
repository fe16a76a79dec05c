package repository

import (
	"database/sql"

	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/repository/models"
	"birdsong-quiz/internal/util"
)

func toDomainNames(en string, fi sql.NullString) domain.LocalizedNames {
	return domain.LocalizedNames{EN: en, FI: fi.String}
}

func toDomainRegion(m *models.Region) *domain.Region {
	if m == nil {
		return nil
	}
	return &domain.Region{
		ID:       m.ID,
		Code:     m.Code,
		Names:    toDomainNames(m.NameEN, m.NameFI),
		ParentID: util.NullInt64ToPtr(m.ParentID),
	}
}

// toDomainRegionWithAncestors links the joined parent and grandparent rows into the Parent chain.
func toDomainRegionWithAncestors(m *models.RegionWithAncestors) *domain.Region {
	if m == nil {
		return nil
	}
	region := toDomainRegion(&m.Region)
	if !m.ParentID.Valid || !m.ParentCode.Valid {
		return region
	}
	region.Parent = &domain.Region{
		ID:       m.ParentID.Int64,
		Code:     m.ParentCode.String,
		Names:    toDomainNames(m.ParentNameEN.String, m.ParentNameFI),
		ParentID: util.NullInt64ToPtr(m.GrandparentID),
	}
	if m.GrandparentID.Valid && m.GrandparentCode.Valid {
		region.Parent.Parent = &domain.Region{
			ID:    m.GrandparentID.Int64,
			Code:  m.GrandparentCode.String,
			Names: toDomainNames(m.GrandparentNameEN.String, m.GrandparentNameFI),
		}
	}
	return region
}

func toDomainSpecies(m *models.Species) *domain.Species {
	if m == nil {
		return nil
	}
	return &domain.Species{
		ID:             m.ID,
		ScientificName: m.ScientificName,
		Names:          toDomainNames(m.NameEN, m.NameFI),
		Order:          m.TaxonOrder.String,
		Family:         m.Family.String,
		Genus:          m.Genus.String,
		Code:           m.Code.String,
	}
}

func toModelSpecies(s *domain.Species) *models.Species {
	if s == nil {
		return nil
	}
	return &models.Species{
		ID:             s.ID,
		ScientificName: s.ScientificName,
		NameEN:         s.Names.EN,
		NameFI:         util.StringToNullString(s.Names.FI),
		TaxonOrder:     util.StringToNullString(s.Order),
		Family:         util.StringToNullString(s.Family),
		Genus:          util.StringToNullString(s.Genus),
		Code:           util.StringToNullString(s.Code),
	}
}

func toDomainRecording(m *models.Recording) *domain.Recording {
	if m == nil {
		return nil
	}
	return &domain.Recording{
		ID:         m.ID,
		SpeciesID:  m.SpeciesID,
		URL:        m.URL,
		AudioURL:   m.AudioURL.String,
		Audio:      m.Audio,
		Recordist:  m.Recordist.String,
		Country:    m.Country.String,
		Location:   m.Location.String,
		SoundType:  domain.SoundType(m.SoundType.String),
		License:    m.License,
		LicenseURL: m.LicenseURL.String,
		Downloaded: m.Downloaded != 0,
		CreatedAt:  m.CreatedAt,
	}
}

func toModelRecording(r *domain.Recording) *models.Recording {
	if r == nil {
		return nil
	}
	return &models.Recording{
		ID:         r.ID,
		SpeciesID:  r.SpeciesID,
		URL:        r.URL,
		AudioURL:   util.StringToNullString(r.AudioURL),
		Audio:      r.Audio,
		Recordist:  util.StringToNullString(r.Recordist),
		Country:    util.StringToNullString(r.Country),
		Location:   util.StringToNullString(r.Location),
		SoundType:  util.StringToNullString(string(r.SoundType)),
		License:    r.License,
		LicenseURL: util.StringToNullString(r.LicenseURL),
		Downloaded: util.BoolToNumber(r.Downloaded),
		CreatedAt:  r.CreatedAt,
	}
}

func toDomainObservation(m *models.ObservationWithSpecies) *domain.Observation {
	if m == nil {
		return nil
	}
	obs := &domain.Observation{
		ID:        m.ID,
		SpeciesID: m.SpeciesID,
		RegionID:  m.RegionID,
		Species: &domain.Species{
			ID:             m.SpeciesID,
			ScientificName: m.ScientificName,
			Names:          toDomainNames(m.NameEN, m.NameFI),
			Code:           m.Code.String,
		},
	}
	if m.OccurrenceType.Valid {
		t := domain.OccurrenceType(m.OccurrenceType.String)
		obs.OccurrenceType = &t
	}
	return obs
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:         m.ID,
		UserID:     util.NullStringToPtr(m.UserID),
		RegionID:   m.RegionID,
		Difficulty: domain.Difficulty(m.Difficulty),
		Mode:       domain.QuizMode(m.QuizMode),
		Length:     m.QuizLength,
		Score:      m.Score,
		StartedAt:  m.StartedAt,
		FinishedAt: util.NullTimeToPtr(m.FinishedAt),
	}
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	if q == nil {
		return nil
	}
	return &models.Quiz{
		ID:         q.ID,
		UserID:     util.StringPtrToNullString(q.UserID),
		RegionID:   q.RegionID,
		Difficulty: string(q.Difficulty),
		QuizMode:   string(q.Mode),
		QuizLength: q.Length,
		Score:      q.Score,
		StartedAt:  q.StartedAt,
		FinishedAt: util.TimePtrToNullTime(q.FinishedAt),
	}
}

func toModelAnswer(a *domain.Answer, position int) *models.Answer {
	if a == nil {
		return nil
	}
	return &models.Answer{
		ID:          a.ID,
		QuizID:      a.QuizID,
		RecordingID: util.Int64PtrToNullInt64(a.RecordingID),
		Position:    position,
		UserAnswer:  util.StringToNullString(a.UserAnswer),
		Correct:     util.BoolToNumber(a.Correct),
	}
}

func toDomainAnswerDetail(m *models.AnswerDetail) *domain.AnswerDetail {
	if m == nil {
		return nil
	}
	detail := &domain.AnswerDetail{
		Answer: &domain.Answer{
			ID:          m.ID,
			QuizID:      m.QuizID,
			RecordingID: util.NullInt64ToPtr(m.RecordingID),
			UserAnswer:  m.UserAnswer.String,
			Correct:     m.Correct != 0,
		},
	}
	if !m.RecordingID.Valid || !m.SpeciesID.Valid {
		return detail
	}
	detail.Recording = &domain.Recording{
		ID:        m.RecordingID.Int64,
		SpeciesID: m.SpeciesID.Int64,
		URL:       m.URL.String,
		AudioURL:  m.AudioURL.String,
		Audio:     m.Audio.String,
	}
	detail.Species = &domain.Species{
		ID:             m.SpeciesID.Int64,
		ScientificName: m.ScientificName.String,
		Names:          toDomainNames(m.NameEN.String, m.NameFI),
	}
	return detail
}
