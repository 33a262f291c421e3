package firefox

const sampleDocument = `{
  "FIREFOX_AURORA": "",
  "FIREFOX_DEVEDITION": "129.0b5",
  "FIREFOX_ESR": "115.13.0esr",
  "FIREFOX_ESR_NEXT": "128.0esr",
  "FIREFOX_NIGHTLY": "130.0a1",
  "LAST_MERGE_DATE": "2024-07-08",
  "LAST_RELEASE_DATE": "2024-07-09",
  "LAST_SOFTFREEZE_DATE": "2024-07-04",
  "LATEST_FIREFOX_DEVEL_VERSION": "129.0b5",
  "LATEST_FIREFOX_OLDER_VERSION": "3.6.28",
  "LATEST_FIREFOX_RELEASED_DEVEL_VERSION": "129.0b5",
  "LATEST_FIREFOX_VERSION": "128.0",
  "NEXT_MERGE_DATE": "2024-08-05",
  "NEXT_RELEASE_DATE": "2024-08-06",
  "NEXT_SOFTFREEZE_DATE": "2024-08-01"
}`
