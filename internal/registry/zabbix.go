package registry

import "github.com/semmidev/zabbix-backup/internal/domain"

const (
	config = domain.CategoryConfig
	data   = domain.CategoryData
)

// zabbixTables lists every table of the Zabbix schema from 1.3.1 to 2.4.0.
// Version columns are the first and last release the table appears in.
var zabbixTables = []domain.TableEntry{
	table("acknowledges", data, "1.3.1", "2.4.0"),
	table("actions", config, "1.3.1", "2.4.0"),
	table("alerts", data, "1.3.1", "2.4.0"),
	table("application_template", config, "2.1.0", "2.4.0"),
	table("applications", config, "1.3.1", "2.4.0"),
	table("auditlog", data, "1.3.1", "2.4.0"),
	table("auditlog_details", data, "1.7", "2.4.0"),
	table("autoreg", config, "1.3.1", "1.3.4"),
	table("autoreg_host", config, "1.7", "2.4.0"),
	table("conditions", config, "1.3.1", "2.4.0"),
	table("config", config, "1.3.1", "2.4.0"),
	table("dbversion", config, "2.1.0", "2.4.0"),
	table("dchecks", config, "1.3.4", "2.4.0"),
	table("dhosts", config, "1.3.4", "2.4.0"),
	table("drules", config, "1.3.4", "2.4.0"),
	table("dservices", config, "1.3.4", "2.4.0"),
	table("escalations", config, "1.5.3", "2.4.0"),
	table("events", data, "1.3.1", "2.4.0"),
	table("expressions", config, "1.7", "2.4.0"),
	table("functions", config, "1.3.1", "2.4.0"),
	table("globalmacro", config, "1.7", "2.4.0"),
	table("globalvars", config, "1.9.0", "2.4.0"),
	table("graph_discovery", config, "1.9.0", "2.4.0"),
	table("graph_theme", config, "1.7", "2.4.0"),
	table("graphs", config, "1.3.1", "2.4.0"),
	table("graphs_items", config, "1.3.1", "2.4.0"),
	table("group_discovery", config, "2.1.4", "2.4.0"),
	table("group_prototype", config, "2.1.4", "2.4.0"),
	table("groups", config, "1.3.1", "2.4.0"),
	table("help_items", config, "1.3.1", "2.1.8"),
	table("history", data, "1.3.1", "2.4.0"),
	table("history_log", data, "1.3.1", "2.4.0"),
	table("history_str", data, "1.3.1", "2.4.0"),
	table("history_str_sync", data, "1.3.1", "2.2.9"),
	table("history_sync", data, "1.3.1", "2.2.9"),
	table("history_text", data, "1.3.1", "2.4.0"),
	table("history_uint", data, "1.3.1", "2.4.0"),
	table("history_uint_sync", data, "1.3.1", "2.2.9"),
	table("host_discovery", config, "1.9.0", "2.4.0"),
	table("host_inventory", config, "1.9.6", "2.4.0"),
	table("host_profile", config, "1.9.3", "1.9.5"),
	table("hostmacro", config, "1.7", "2.4.0"),
	table("hosts", config, "1.3.1", "2.4.0"),
	table("hosts_groups", config, "1.3.1", "2.4.0"),
	table("hosts_profiles", config, "1.3.1", "1.9.2"),
	table("hosts_profiles_ext", config, "1.6", "1.9.2"),
	table("hosts_templates", config, "1.3.1", "2.4.0"),
	table("housekeeper", config, "1.3.1", "2.4.0"),
	table("httpstep", config, "1.3.1", "2.4.0"),
	table("httpstepitem", config, "1.3.1", "2.4.0"),
	table("httptest", config, "1.3.1", "2.4.0"),
	table("httptestitem", config, "1.3.1", "2.4.0"),
	table("icon_map", config, "1.9.6", "2.4.0"),
	table("icon_mapping", config, "1.9.6", "2.4.0"),
	table("ids", config, "1.3.3", "2.4.0"),
	table("images", config, "1.3.1", "2.4.0"),
	table("interface", config, "1.9.1", "2.4.0"),
	table("interface_discovery", config, "2.1.4", "2.4.0"),
	table("item_condition", config, "2.3.0", "2.4.0"),
	table("item_discovery", config, "1.9.0", "2.4.0"),
	table("items", config, "1.3.1", "2.4.0"),
	table("items_applications", config, "1.3.1", "2.4.0"),
	table("maintenances", config, "1.7", "2.4.0"),
	table("maintenances_groups", config, "1.7", "2.4.0"),
	table("maintenances_hosts", config, "1.7", "2.4.0"),
	table("maintenances_windows", config, "1.7", "2.4.0"),
	table("mappings", config, "1.3.1", "2.4.0"),
	table("media", config, "1.3.1", "2.4.0"),
	table("media_type", config, "1.3.1", "2.4.0"),
	table("node_cksum", config, "1.3.1", "2.2.9"),
	table("nodes", config, "1.3.1", "2.2.9"),
	table("opcommand", config, "1.9.4", "2.4.0"),
	table("opcommand_grp", config, "1.9.2", "2.4.0"),
	table("opcommand_hst", config, "1.9.2", "2.4.0"),
	table("opconditions", config, "1.9.0", "2.4.0"),
	table("operations", config, "1.3.4", "2.4.0"),
	table("opgroup", config, "1.9.2", "2.4.0"),
	table("opinventory", config, "2.1.4", "2.4.0"),
	table("opmediatypes", config, "1.7", "1.9.1"),
	table("opmessage", config, "1.9.2", "2.4.0"),
	table("opmessage_grp", config, "1.9.2", "2.4.0"),
	table("opmessage_usr", config, "1.9.2", "2.4.0"),
	table("optemplate", config, "1.9.2", "2.4.0"),
	table("profiles", config, "1.3.1", "2.4.0"),
	table("proxy_autoreg_host", data, "1.7", "2.4.0"),
	table("proxy_dhistory", data, "1.5", "2.4.0"),
	table("proxy_history", data, "1.5.1", "2.4.0"),
	table("regexps", config, "1.7", "2.4.0"),
	table("rights", config, "1.3.1", "2.4.0"),
	table("screens", config, "1.3.1", "2.4.0"),
	table("screens_items", config, "1.3.1", "2.4.0"),
	table("scripts", config, "1.5", "2.4.0"),
	table("service_alarms", data, "1.3.1", "2.4.0"),
	table("services", config, "1.3.1", "2.4.0"),
	table("services_links", config, "1.3.1", "2.4.0"),
	table("services_times", config, "1.3.1", "2.4.0"),
	table("sessions", data, "1.3.1", "2.4.0"),
	table("slides", config, "1.3.4", "2.4.0"),
	table("slideshows", config, "1.3.4", "2.4.0"),
	table("sysmap_element_url", config, "1.9.0", "2.4.0"),
	table("sysmap_url", config, "1.9.0", "2.4.0"),
	table("sysmaps", config, "1.3.1", "2.4.0"),
	table("sysmaps_elements", config, "1.3.1", "2.4.0"),
	table("sysmaps_link_triggers", config, "1.5", "2.4.0"),
	table("sysmaps_links", config, "1.3.1", "2.4.0"),
	table("timeperiods", config, "1.7", "2.4.0"),
	table("trends", data, "1.3.1", "2.4.0"),
	table("trends_uint", data, "1.5", "2.4.0"),
	table("trigger_depends", config, "1.3.1", "2.4.0"),
	table("trigger_discovery", config, "1.9.0", "2.4.0"),
	table("triggers", config, "1.3.1", "2.4.0"),
	table("user_history", config, "1.7", "2.4.0"),
	table("users", config, "1.3.1", "2.4.0"),
	table("users_groups", config, "1.3.1", "2.4.0"),
	table("usrgrp", config, "1.3.1", "2.4.0"),
	table("valuemaps", config, "1.3.1", "2.4.0"),
}

func table(name string, c domain.Category, since, until string) domain.TableEntry {
	return domain.TableEntry{Name: name, Category: c, Since: since, Until: until}
}
