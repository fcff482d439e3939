package steam

// storeAppListResponse is the IStoreService/GetAppList/v1 envelope
type storeAppListResponse struct {
	Response struct {
		Apps            []storeApp `json:"apps"`
		HaveMoreResults bool       `json:"have_more_results"`
		LastAppID       int        `json:"last_appid"`
	} `json:"response"`
}

type storeApp struct {
	AppID        int    `json:"appid"`
	Name         string `json:"name"`
	LastModified int64  `json:"last_modified"`
}

// appListResponse is the keyless ISteamApps/GetAppList/v2 envelope
type appListResponse struct {
	AppList struct {
		Apps []struct {
			AppID int    `json:"appid"`
			Name  string `json:"name"`
		} `json:"apps"`
	} `json:"applist"`
}
