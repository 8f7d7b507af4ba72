package services

import "roomcast/internal/core/domain"

type noopMetrics struct{}

func (noopMetrics) RecordRoomCreated()                    {}
func (noopMetrics) RecordJoin(domain.Role)                {}
func (noopMetrics) RecordStatusChange(domain.RoomStatus)  {}
func (noopMetrics) RecordAuthEvent(event, outcome string) {}
