package patienthistory

import "time"

func ptr[T any](v T) *T { return &v }

var fixedAt = time.Date(2024, 3, 5, 14, 30, 15, 123000000, time.UTC)

func fullRegular() *Regular {
	return &Regular{
		ItemBase: ItemBase{ID: 11, PatientID: 23680, MaskID: ptr(int64(3))},
		HistoryItem: &CatalogItemRef{
			ID: 900, Name: "Glaucoma", HistoryTypeID: 2, Code: ptr("H40.9"),
		},
		Date:          &Date{Year: 2019, Month: time.June, Day: 1},
		Active:        true,
		Negative:      false,
		EyeLocation:   ptr("OU"),
		Note:          ptr("stable on drops"),
		Relation:      ptr("self"),
		Details:       ptr("primary open angle"),
		Treatment:     ptr("latanoprost"),
		ResolvedDate:  &Date{Year: 2021, Month: time.January, Day: 15},
		CreatorUserID: ptr(int64(77)),
	}
}

func fullFreeText() *FreeText {
	return &FreeText{
		ItemBase:      ItemBase{ID: 12, PatientID: 23680},
		HistoryTypeID: 4,
		Date:          &Date{Year: 2020, Month: time.February, Day: 29},
		Value:         ptr("non-smoker since 2010"),
		Deleted:       false,
	}
}

func fullURL() *URL {
	return &URL{
		ItemBase:      ItemBase{ID: 1, PatientID: 23680},
		HistoryTypeID: 15,
		Date:          &Date{Year: 2022, Month: time.May, Day: 9},
		URL:           ptr("www.example.com"),
		URLName:       ptr("Sample"),
	}
}

func fullTracking() *Tracking {
	return &Tracking{
		ItemBase:       ItemBase{ID: 14, PatientID: 23680, MaskID: ptr(int64(1))},
		ModifierUserID: ptr(int64(8)),
		CreatorUserID:  ptr(int64(7)),
		StateDate:      &Date{Year: 2023, Month: time.October, Day: 3},
		ModifiedDate:   ptr(fixedAt),
		Note:           ptr("lesion 4mm"),
		CurrentState:   true,
		MajorChange:    true,
		Active:         true,
		TrackingItem:   &TrackingItemRef{ID: 55, Name: "Nevus left arm", HistoryTypeID: 9},
	}
}

func fullSnapshots() []Snapshot {
	return []Snapshot{
		&RegularHistory{
			SnapshotBase:            SnapshotBase{ID: 101, PatientID: 23680, MaskID: ptr(int64(3)), ModifiedDate: fixedAt},
			PatientHistoryRegularID: 11,
			HistoryItem:             &CatalogItemRef{ID: 900, Name: "Glaucoma", HistoryTypeID: 2},
			Date:                    &Date{Year: 2019, Month: time.June, Day: 1},
			Active:                  true,
			Note:                    ptr("stable"),
			HistoryUserID:           ptr(int64(77)),
		},
		&FreeTextHistory{
			SnapshotBase:             SnapshotBase{ID: 102, PatientID: 23680, ModifiedDate: fixedAt},
			PatientHistoryFreeTextID: 12,
			HistoryTypeID:            4,
			Value:                    ptr("non-smoker"),
			Deleted:                  true,
			HistoryUserID:            ptr(int64(77)),
		},
		&URLHistory{
			SnapshotBase:        SnapshotBase{ID: 103, PatientID: 23680, ModifiedDate: fixedAt},
			PatientHistoryURLID: 1,
			HistoryTypeID:       15,
			URL:                 ptr("www.example.com"),
			URLName:             ptr("Sample"),
		},
		&TrackingHistory{
			SnapshotBase:             SnapshotBase{ID: 104, PatientID: 23680, ModifiedDate: fixedAt},
			PatientHistoryTrackingID: 14,
			ModifierUserID:           ptr(int64(8)),
			CreatorUserID:            ptr(int64(7)),
			StateDate:                &Date{Year: 2023, Month: time.October, Day: 3},
			CurrentState:             true,
			MajorChange:              true,
			Active:                   true,
			TrackingItem:             &TrackingItemRef{ID: 55, Name: "Nevus left arm", HistoryTypeID: 9},
		},
	}
}

func fullLiveItems() []LiveItem {
	return []LiveItem{fullRegular(), fullFreeText(), fullURL(), fullTracking()}
}

// emptyLiveItems carries only the base ids; every optional field is null.
func emptyLiveItems() []LiveItem {
	return []LiveItem{
		&Regular{ItemBase: ItemBase{ID: 1, PatientID: 2}},
		&FreeText{ItemBase: ItemBase{ID: 1, PatientID: 2}},
		&URL{ItemBase: ItemBase{ID: 1, PatientID: 2}},
		&Tracking{ItemBase: ItemBase{ID: 1, PatientID: 2}},
	}
}

func emptySnapshots() []Snapshot {
	base := SnapshotBase{ID: 1, PatientID: 2, ModifiedDate: fixedAt}
	return []Snapshot{
		&RegularHistory{SnapshotBase: base},
		&FreeTextHistory{SnapshotBase: base},
		&URLHistory{SnapshotBase: base},
		&TrackingHistory{SnapshotBase: base},
	}
}
